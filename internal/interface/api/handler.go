package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jinford/doc-qa/internal/core/corpus"
	"github.com/jinford/doc-qa/internal/core/ingestion"
	"github.com/jinford/doc-qa/internal/core/qa"
)

// Ingester はインジェストのエントリポイント
type Ingester interface {
	Ingest(ctx context.Context) (*ingestion.Result, error)
}

// Handler は外部リクエスト／レスポンス契約への変換を担う
type Handler struct {
	answerer qa.Answerer
	ingester Ingester
	logger   *slog.Logger
}

// NewHandler は新しい Handler を作成する
func NewHandler(answerer qa.Answerer, ingester Ingester, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		answerer: answerer,
		ingester: ingester,
		logger:   logger,
	}
}

// questionRequest はクエリエントリポイントの入力
type questionRequest struct {
	Question string `json:"question"`
}

// questionResponse はクエリエントリポイントの成功出力
type questionResponse struct {
	Request           string            `json:"request"`
	RelevantDocuments map[string]string `json:"relevant_documents"`
}

// ingestResponse はインジェストエントリポイントの成功出力
type ingestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// errorResponse は失敗時の共通出力
type errorResponse struct {
	Error string `json:"error"`
}

// Health は死活確認に応答する
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Question は質問を受け付けて回答を返す
// 空の質問は400、エンジンの失敗は原因メッセージを保持したまま500で返す
func (h *Handler) Question(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	answer, err := h.answerer.Answer(r.Context(), req.Question)
	if err != nil {
		h.logger.Error("failed to answer question", "error", err.Error())
		writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, questionResponse{
		Request:           answer.Result,
		RelevantDocuments: answer.RelevantDocuments,
	})
}

// Ingest はインジェスト実行を受け付け、単一の終端結果を返す
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	result, err := h.ingester.Ingest(r.Context())
	if err != nil {
		h.logger.Error("ingestion failed", "error", err.Error())
		writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		Status:  "success",
		Message: "embeddings saved successfully",
	})
	h.logger.Info("ingestion succeeded", "collection", result.Collection, "chunks", result.Chunks)
}

// statusForError はエラー分類をHTTPステータスへ対応付ける
func statusForError(err error) int {
	switch {
	case errors.Is(err, qa.ErrInvalidQuestion),
		errors.Is(err, corpus.ErrUnsupportedEnvironment):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
