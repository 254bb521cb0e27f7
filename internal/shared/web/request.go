package web

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdentityKey is the gin context key the auth middleware stores the
// caller's *Identity under.
const IdentityKey = "identity"

// UploadLimitKey holds the per-file byte limit set by LimitUploads.
const UploadLimitKey = "upload_limit"

const (
	maxMultipartMemory = 32 << 20
	// formOverhead leaves room for the text fields and multipart framing
	// around a file that is exactly at the limit.
	formOverhead = 1 << 20
)

// Identity is the authenticated caller. Nil on a Request means anonymous.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// UploadedFile is a submitted file. Data is nil when Size exceeds the upload
// limit; the body was never read in that case.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// TooLarge reports whether the file was skipped for exceeding the limit.
func (f *UploadedFile) TooLarge() bool {
	return f.Data == nil && f.Size > 0
}

// Request is the transport-independent view of an HTTP request that page
// handlers operate on.
type Request struct {
	Identity *Identity
	Method   string
	Path     string
	Params   map[string]string
	Query    url.Values
	Form     url.Values
	Files    map[string]*UploadedFile
}

func (r *Request) Param(name string) string {
	return r.Params[name]
}

func (r *Request) IsPost() bool {
	return r.Method == http.MethodPost
}

func (r *Request) Authenticated() bool {
	return r.Identity != nil
}

// FormValue returns the submitted value and whether the field was present at all.
func (r *Request) FormValue(name string) (string, bool) {
	values, ok := r.Form[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (r *Request) File(name string) *UploadedFile {
	return r.Files[name]
}

// IdentityFrom returns the identity the auth middleware attached, if any.
func IdentityFrom(c *gin.Context) *Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}

// LimitUploads caps each uploaded file at maxBytes and the whole request body
// at maxBytes plus room for the other form fields.
func LimitUploads(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Set(UploadLimitKey, maxBytes)
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+formOverhead)
		}
		c.Next()
	}
}

// NewRequest builds a Request from a gin context, reading the form body
// (urlencoded or multipart) for POST requests.
func NewRequest(c *gin.Context) (*Request, error) {
	req := &Request{
		Identity: IdentityFrom(c),
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		Params:   make(map[string]string, len(c.Params)),
		Query:    c.Request.URL.Query(),
		Form:     url.Values{},
		Files:    map[string]*UploadedFile{},
	}

	for _, p := range c.Params {
		req.Params[p.Key] = p.Value
	}

	if c.Request.Method != http.MethodPost {
		return req, nil
	}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		req.Form = c.Request.PostForm

		for field, headers := range c.Request.MultipartForm.File {
			if len(headers) == 0 || headers[0].Size == 0 {
				continue
			}
			file, err := readUpload(headers[0], c.GetInt64(UploadLimitKey))
			if err != nil {
				return nil, err
			}
			req.Files[field] = file
		}
		return req, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	req.Form = c.Request.PostForm
	return req, nil
}

// readUpload loads a file into memory. A limit of 0 means unlimited.
func readUpload(fh *multipart.FileHeader, limit int64) (*UploadedFile, error) {
	upload := &UploadedFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
	if limit > 0 && fh.Size > limit {
		return upload, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		upload.Size = int64(len(data))
		return upload, nil
	}

	upload.Data = data
	return upload, nil
}
