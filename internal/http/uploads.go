package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammedbesir/okuyamayanlar/internal/images"
)

// UploadsController proxies member image uploads (avatars, book covers,
// event photos) to the image host.
type UploadsController struct {
	images *images.Client
}

func NewUploadsController(client *images.Client) *UploadsController {
	return &UploadsController{images: client}
}

// Upload handles POST /api/uploads with a multipart "file" field.
// Responds with the hosted URL to store on the owning record.
func (uc *UploadsController) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file field is required")
		return
	}
	defer file.Close()

	result, err := uc.images.Upload(c.Request.Context(),
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, images.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "image uploads are not configured"})
		case errors.Is(err, images.ErrUnsupportedType):
			respondBadRequest(c, err.Error())
		case errors.Is(err, images.ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
		default:
			respondInternalError(c, err, "upload image")
		}
		return
	}

	respondCreated(c, gin.H{"upload": result})
}
