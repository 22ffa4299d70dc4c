package api

import (
	"errors"
	"io"
	"net/http"

	"go-dgpa-watcher/internal/extract"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxBodyBytes caps uploaded pages. Result pages of the vacancy search are a few hundred KB.
var maxBodyBytes int64 = 8 << 20

type extractRequest struct {
	HTML    string `json:"html" binding:"required"`
	Keyword string `json:"keyword"`
}

// NewRouter serves the extractor over HTTP.
func NewRouter(ex *extract.Extractor, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "DGPA watcher API is running!",
			"status":  "healthy",
		})
	})

	r.POST("/extract", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

		var req extractRequest
		if c.ContentType() == "text/html" {
			//raw page upload, keyword in the query string
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				badRequest(c, err)
				return
			}
			req = extractRequest{HTML: string(body), Keyword: c.Query("keyword")}
		} else if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		res, err := ex.Extract(req.HTML, req.Keyword)
		if err != nil {
			if errors.Is(err, extract.ErrMalformedInput) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			logger.Error("❌ Extraction failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, res)
	})

	return r
}

func badRequest(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
