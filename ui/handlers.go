package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"csvscope/internal/analyze"
	"csvscope/internal/errors"
	"csvscope/internal/report"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Defaults": s.cfg.Analysis,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze accepts a multipart form with one or more "files"
// parts plus optional option fields and returns the structured
// analysis response as JSON. Per-file failures are carried inside
// their result slots; only request-level problems produce an HTTP
// error status.
func (s *Server) handleAnalyze(c *gin.Context) {
	req, err := s.parseAnalyzeRequest(c)
	if err != nil {
		s.renderError(c, err)
		return
	}

	resp, err := s.pipeline.Run(c.Request.Context(), *req)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleAnalyzeReport runs the same analysis but responds with the
// rendered HTML report, for browser form posts.
func (s *Server) handleAnalyzeReport(c *gin.Context) {
	req, err := s.parseAnalyzeRequest(c)
	if err != nil {
		s.renderError(c, err)
		return
	}

	resp, err := s.pipeline.Run(c.Request.Context(), *req)
	if err != nil {
		s.renderError(c, err)
		return
	}

	var md strings.Builder
	md.WriteString("# Analysis report\n\n")
	for _, result := range resp.Results {
		md.WriteString(result.Report)
		md.WriteString("\n")
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.RenderHTML(md.String()))
}

// parseAnalyzeRequest builds an analysis request from the multipart
// form. Recognized option fields: bins, kde, max_cols, corr. Optional
// "selections" is a JSON object mapping file IDs ("index:filename") to
// column name arrays.
func (s *Server) parseAnalyzeRequest(c *gin.Context) (*analyze.Request, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	files := form.File["files"]
	if len(files) == 0 {
		return nil, errors.InvalidInput("no files uploaded")
	}
	if len(files) > s.cfg.Upload.MaxUploadFiles {
		return nil, errors.InvalidInput(fmt.Sprintf("too many files: %d (limit %d)", len(files), s.cfg.Upload.MaxUploadFiles))
	}

	inputs := make([]analyze.FileInput, 0, len(files))
	maxBytes := s.cfg.Upload.MaxFileSizeMB << 20
	for _, fh := range files {
		if fh.Size > maxBytes {
			return nil, errors.InvalidInput(fmt.Sprintf("file %s exceeds the %dMB limit", fh.Filename, s.cfg.Upload.MaxFileSizeMB))
		}
		content, err := readUpload(fh)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read upload %s", fh.Filename)
		}
		inputs = append(inputs, analyze.FileInput{Filename: fh.Filename, Content: content})
	}

	opts := s.cfg.Analysis
	if v := formValue(c, "bins"); v != "" {
		if bins, err := strconv.Atoi(v); err == nil {
			opts.HistogramBins = bins
		}
	}
	if v := formValue(c, "kde"); v != "" {
		if kde, err := strconv.ParseBool(v); err == nil {
			opts.ShowKDE = kde
		}
	}
	if v := formValue(c, "max_cols"); v != "" {
		if maxCols, err := strconv.Atoi(v); err == nil {
			opts.MaxDefaultColumns = maxCols
		}
	}
	if v := formValue(c, "corr"); v != "" {
		if corr, err := strconv.ParseBool(v); err == nil {
			opts.ShowCorrelation = corr
		}
	}

	var selections map[string][]string
	if v := c.PostForm("selections"); v != "" {
		if err := json.Unmarshal([]byte(v), &selections); err != nil {
			return nil, errors.InvalidInput("selections must be a JSON object of file ID to column names")
		}
	}

	return &analyze.Request{
		Files:      inputs,
		Options:    opts.Clamped(),
		Selections: selections,
	}, nil
}

// formValue returns the last posted value for a field. The upload page
// pairs each checkbox with a hidden "false" companion so the field is
// always submitted; the checked value, when present, arrives after it.
func formValue(c *gin.Context, name string) string {
	values := c.PostFormArray(name)
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

func (s *Server) renderError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalidInput, errors.CodeValidationError:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	s.logger.Warn("[Server] request failed (%s): %v", code, err)
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
