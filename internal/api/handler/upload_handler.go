package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdpi/member-portal/internal/api/metrics"
	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

const uploadField = "file"

type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload handles POST /upload with a multipart "file" field.
//
// @Summary      Upload an image
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "JPEG, PNG, WEBP or GIF up to 5 MB"
// @Success      201   {object}  domain.UploadedFile
// @Failure      400   {object}  errorResponse
// @Failure      413   {object}  errorResponse
// @Router       /upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		if errors.Is(err, http.ErrMissingFile) {
			return domain.ErrEmptyUpload
		}
		return errInvalidPayload(err)
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	file, err := h.service.Upload(c.Request().Context(), ports.UploadInput{
		Filename: fh.Filename,
		Size:     fh.Size,
		Body:     f,
	})
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	result := "stored"
	if file.Deduplicated {
		result = "deduplicated"
	}
	metrics.UploadsTotal.WithLabelValues(result).Inc()
	metrics.UploadSizeBytes.Observe(float64(file.Size))
	return respondMessage(c, http.StatusCreated, file, "file uploaded")
}
