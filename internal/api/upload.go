package api

import (
	"io"
	"mime/multipart"
	"net/http"

	"hardcase/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// maxMultipartMemory bounds the part of a form kept in memory; the rest
// spills to temp files.
const maxMultipartMemory = 32 << 20

// formFiles collects the "files" parts of a multipart request.
func formFiles(c *gin.Context) ([]service.FileUpload, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Expected multipart form: "+err.Error())
		return nil, false
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		abortWithError(c, http.StatusBadRequest, "No files were provided.")
		return nil, false
	}
	return fileUploads(headers), true
}

func fileUploads(headers []*multipart.FileHeader) []service.FileUpload {
	files := make([]service.FileUpload, len(headers))
	for i, fh := range headers {
		fh := fh
		files[i] = service.FileUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		}
	}
	return files
}
