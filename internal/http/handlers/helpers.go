package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cannon-backend/internal/platform/apierr"
	"github.com/yungbote/cannon-backend/internal/platform/ctxutil"
)

const (
	maxImageBytes = 15 << 20
	maxVideoBytes = 200 << 20
)

func currentUserID(c *gin.Context) uuid.UUID {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := strings.TrimSpace(c.Query(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func pathUUID(c *gin.Context, key, code string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(key)))
	if err != nil {
		return uuid.Nil, apierr.BadRequest(code, err)
	}
	return id, nil
}

// readFormFile returns the bytes of a multipart field. Missing fields yield nil, nil.
func readFormFile(c *gin.Context, field string, limit int64) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", apierr.BadRequest("invalid_multipart", err)
	}
	return readFileHeader(fh, field, limit)
}

func readFileHeader(fh *multipart.FileHeader, field string, limit int64) ([]byte, string, error) {
	if fh.Size > limit {
		return nil, "", apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("%s exceeds %d bytes", field, limit))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", apierr.BadRequest("invalid_multipart", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, "", apierr.BadRequest("invalid_multipart", err)
	}
	if int64(len(data)) > limit {
		return nil, "", apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("%s exceeds %d bytes", field, limit))
	}
	return data, fh.Header.Get("Content-Type"), nil
}
