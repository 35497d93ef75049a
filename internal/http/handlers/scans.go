package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cannon-backend/internal/http/response"
	"github.com/yungbote/cannon-backend/internal/modules/scans"
	"github.com/yungbote/cannon-backend/internal/platform/apierr"
)

type ScanUsecases interface {
	UploadImages(ctx context.Context, userID uuid.UUID, in scans.UploadImagesInput) (scans.UploadResult, error)
	UploadVideo(ctx context.Context, userID uuid.UUID, video []byte) (scans.UploadResult, error)
	Analyze(ctx context.Context, userID, scanID uuid.UUID) (scans.AnalyzeResult, error)
	Latest(ctx context.Context, userID uuid.UUID) (scans.ScanView, error)
	ByID(ctx context.Context, userID, scanID uuid.UUID) (scans.ScanView, error)
	History(ctx context.Context, userID uuid.UUID, limit int) (scans.HistoryResult, error)
}

type ScanHandler struct {
	scans ScanUsecases
}

func NewScanHandler(uc ScanUsecases) *ScanHandler {
	return &ScanHandler{scans: uc}
}

// POST /api/scans/upload (multipart: front, left, right)
func (h *ScanHandler) UploadImages(c *gin.Context) {
	var in scans.UploadImagesInput
	for field, dst := range map[string]*[]byte{"front": &in.Front, "left": &in.Left, "right": &in.Right} {
		data, _, err := readFormFile(c, field, maxImageBytes)
		if err != nil {
			response.RespondAPIError(c, err, "upload_failed")
			return
		}
		if len(data) == 0 {
			response.RespondAPIError(c, apierr.BadRequest("missing_image", errors.New(field+" image is required")), "upload_failed")
			return
		}
		*dst = data
	}
	res, err := h.scans.UploadImages(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		response.RespondAPIError(c, err, "upload_failed")
		return
	}
	response.RespondCreated(c, res)
}

// POST /api/scans/upload-video (multipart: file)
func (h *ScanHandler) UploadVideo(c *gin.Context) {
	data, _, err := readFormFile(c, "file", maxVideoBytes)
	if err != nil {
		response.RespondAPIError(c, err, "upload_failed")
		return
	}
	res, err := h.scans.UploadVideo(c.Request.Context(), currentUserID(c), data)
	if err != nil {
		response.RespondAPIError(c, err, "upload_failed")
		return
	}
	response.RespondCreated(c, res)
}

// POST /api/scans/:id/analyze
func (h *ScanHandler) Analyze(c *gin.Context) {
	scanID, err := pathUUID(c, "id", "invalid_scan_id")
	if err != nil {
		response.RespondAPIError(c, err, "invalid_scan_id")
		return
	}
	res, err := h.scans.Analyze(c.Request.Context(), currentUserID(c), scanID)
	if err != nil {
		response.RespondAPIError(c, err, "analysis_failed")
		return
	}
	response.RespondOK(c, res)
}

// GET /api/scans/latest
func (h *ScanHandler) Latest(c *gin.Context) {
	v, err := h.scans.Latest(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.RespondAPIError(c, err, "load_scan_failed")
		return
	}
	response.RespondOK(c, v)
}

// GET /api/scans/history?limit=10
func (h *ScanHandler) History(c *gin.Context) {
	res, err := h.scans.History(c.Request.Context(), currentUserID(c), queryInt(c, "limit", 10))
	if err != nil {
		response.RespondAPIError(c, err, "load_scans_failed")
		return
	}
	response.RespondOK(c, res)
}

// GET /api/scans/:id
func (h *ScanHandler) Get(c *gin.Context) {
	scanID, err := pathUUID(c, "id", "invalid_scan_id")
	if err != nil {
		response.RespondAPIError(c, err, "invalid_scan_id")
		return
	}
	v, err := h.scans.ByID(c.Request.Context(), currentUserID(c), scanID)
	if err != nil {
		response.RespondAPIError(c, err, "load_scan_failed")
		return
	}
	response.RespondOK(c, v)
}
