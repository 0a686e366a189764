package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Igordev7/PricetireForce/internal/apierror"
	"github.com/Igordev7/PricetireForce/internal/ingest"
	"github.com/Igordev7/PricetireForce/internal/middleware"
	"github.com/Igordev7/PricetireForce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 20 << 20 // 20 MiB

// UploadHandler receives price spreadsheets and runs the ingestion
// pipeline synchronously; only the notification email is async.
type UploadHandler struct {
	svc service.ImportService
	rdb *redis.Client
}

func NewUploadHandler(svc service.ImportService, rdb *redis.Client) *UploadHandler {
	return &UploadHandler{svc: svc, rdb: rdb}
}

// Upload handles one multipart file under the "file" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Arquivo ausente: envie o campo 'file'"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("Arquivo excede o limite de 20MB"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Não foi possível ler o arquivo enviado"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Não foi possível ler o arquivo enviado"))
		return
	}

	uploadedBy := ""
	if claims := middleware.GetClaims(c); claims != nil {
		uploadedBy = claims.Email
	}

	summary, err := h.svc.ImportFile(c.Request.Context(), data, fileHeader.Filename, uploadedBy)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrColumnsNotIdentified):
			c.JSON(http.StatusBadRequest, apierror.New("Não foi possível identificar as colunas da planilha"))
		case errors.Is(err, ingest.ErrUnreadableFile):
			c.JSON(http.StatusBadRequest, apierror.New("Formato de arquivo não suportado ou corrompido"))
		default:
			_ = c.Error(err)
		}
		return
	}

	// New data invalidates every cached analytics variant.
	if err := h.rdb.Incr(c.Request.Context(), analyticsVersionKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to bump analytics cache version")
	}

	c.JSON(http.StatusOK, summary)
}
