package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/juanrafernandez/AudioCity-sub000/internal/domain/model"
	"github.com/juanrafernandez/AudioCity-sub000/internal/usecase"
)

// deviceIDHeader クライアント端末を識別するヘッダー（未指定時は単一端末として扱う)
const deviceIDHeader = "X-Device-ID"

// TourSessionHandler ツアーセッションAPIのハンドラー
type TourSessionHandler struct {
	sessionUseCase usecase.TourSessionUseCase
}

// NewTourSessionHandler 新しいTourSessionHandlerインスタンスを作成する
func NewTourSessionHandler(sessionUseCase usecase.TourSessionUseCase) *TourSessionHandler {
	return &TourSessionHandler{sessionUseCase: sessionUseCase}
}

// RegisterRoutes エンドポイントをginルーターに登録する
func (h *TourSessionHandler) RegisterRoutes(r *gin.Engine) {
	tours := r.Group("/tours")
	{
		tours.POST("/:route_id/sessions", h.StartSession)
		tours.GET("/:route_id/optimization-offer", h.GetOptimizationOffer)
	}

	sessions := r.Group("/sessions")
	{
		sessions.GET("/active", h.GetActiveSession)
		sessions.DELETE("/active", h.EndSession)
		sessions.POST("/active/location", h.IngestLocation)
		sessions.POST("/active/restore", h.RestoreSession)
		sessions.POST("/active/authorization", h.IngestAuthorizationChange)
		sessions.DELETE("/snapshot", h.DiscardSnapshot)
		sessions.POST("/active/audio/pause", h.PauseAudio)
		sessions.POST("/active/audio/resume", h.ResumeAudio)
		sessions.POST("/active/audio/stop", h.StopAudio)
	}
}

func deviceID(c *gin.Context) string {
	if id := c.GetHeader(deviceIDHeader); id != "" {
		return id
	}
	return "default"
}

// StartSession POST /tours/:route_id/sessions - ルートセッションの開始
func (h *TourSessionHandler) StartSession(c *gin.Context) {
	var req model.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	response, err := h.sessionUseCase.StartSession(c.Request.Context(), deviceID(c), c.Param("route_id"), &req)
	if err != nil {
		h.respondSessionError(c, err, "セッションの開始に失敗しました")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetOptimizationOffer GET /tours/:route_id/optimization-offer - 最適化選択肢の提示判定
func (h *TourSessionHandler) GetOptimizationOffer(c *gin.Context) {
	latitude, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	longitude, errLng := strconv.ParseFloat(c.Query("longitude"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "latitude/longitudeクエリパラメータが必要です",
		})
		return
	}

	userLocation := model.Coordinate{Latitude: latitude, Longitude: longitude}
	if !userLocation.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "座標が有効範囲外です",
		})
		return
	}

	response, err := h.sessionUseCase.CheckOptimizationOffer(c.Request.Context(), c.Param("route_id"), userLocation)
	if err != nil {
		h.respondSessionError(c, err, "最適化判定に失敗しました")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetActiveSession GET /sessions/active - 現在のセッション状態の取得
func (h *TourSessionHandler) GetActiveSession(c *gin.Context) {
	response, err := h.sessionUseCase.GetSessionState(c.Request.Context(), deviceID(c))
	if err != nil {
		h.respondSessionError(c, err, "セッション状態の取得に失敗しました")
		return
	}
	c.JSON(http.StatusOK, response)
}

// IngestLocation POST /sessions/active/location - 測位結果の取り込み
func (h *TourSessionHandler) IngestLocation(c *gin.Context) {
	var req model.LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	response, err := h.sessionUseCase.IngestLocation(c.Request.Context(), deviceID(c), &req)
	if err != nil {
		h.respondSessionError(c, err, "測位結果の取り込みに失敗しました")
		return
	}

	c.JSON(http.StatusOK, response)
}

// RestoreSession POST /sessions/active/restore - スナップショットからの再開
func (h *TourSessionHandler) RestoreSession(c *gin.Context) {
	response, err := h.sessionUseCase.RestoreSession(c.Request.Context(), deviceID(c))
	if err != nil {
		h.respondSessionError(c, err, "セッションの再開に失敗しました")
		return
	}
	c.JSON(http.StatusOK, response)
}

// IngestAuthorizationChange POST /sessions/active/authorization - 位置情報許可状態の通知
func (h *TourSessionHandler) IngestAuthorizationChange(c *gin.Context) {
	var req struct {
		Status model.AuthorizationStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	h.sessionUseCase.IngestAuthorizationChange(deviceID(c), req.Status)
	c.Status(http.StatusNoContent)
}

// EndSession DELETE /sessions/active - セッションの終了
func (h *TourSessionHandler) EndSession(c *gin.Context) {
	if err := h.sessionUseCase.EndSession(c.Request.Context(), deviceID(c)); err != nil {
		h.respondSessionError(c, err, "セッションの終了に失敗しました")
		return
	}
	c.Status(http.StatusNoContent)
}

// DiscardSnapshot DELETE /sessions/snapshot - 再開用スナップショットの破棄
func (h *TourSessionHandler) DiscardSnapshot(c *gin.Context) {
	if err := h.sessionUseCase.DiscardSnapshot(c.Request.Context(), deviceID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "スナップショットの破棄に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// PauseAudio POST /sessions/active/audio/pause
func (h *TourSessionHandler) PauseAudio(c *gin.Context) {
	h.sessionUseCase.PauseAudio(deviceID(c))
	c.Status(http.StatusNoContent)
}

// ResumeAudio POST /sessions/active/audio/resume
func (h *TourSessionHandler) ResumeAudio(c *gin.Context) {
	h.sessionUseCase.ResumeAudio(deviceID(c))
	c.Status(http.StatusNoContent)
}

// StopAudio POST /sessions/active/audio/stop
func (h *TourSessionHandler) StopAudio(c *gin.Context) {
	h.sessionUseCase.StopAudio(deviceID(c))
	c.Status(http.StatusNoContent)
}

// respondSessionError ドメインエラーをHTTPステータスへ対応付ける
func (h *TourSessionHandler) respondSessionError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, model.ErrInvalidLocation):
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, model.ErrSessionAlreadyActive):
		c.JSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, model.ErrNoActiveSession), errors.Is(err, model.ErrNoSnapshot), errors.Is(err, model.ErrRouteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, model.ErrInvalidRouteData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": message, "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
