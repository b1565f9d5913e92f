package admin

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/aminejameli/dropservices-manager/internal/apisrv/resp"
)

type mediaRequest struct {
	// RawB64Image carries an inline upload, URL a re-host of an existing
	// image. Exactly one must be set.
	RawB64Image string `json:"rawB64Image"`
	URL         string `json:"url"`
	Folder      string `json:"folder"`
}

func (mr *mediaRequest) Bind(r *http.Request) error {
	if (mr.RawB64Image == "") == (mr.URL == "") {
		return fmt.Errorf("exactly one of rawB64Image and url is required")
	}
	return nil
}

type mediaResponse struct {
	URL string `json:"url"`
}

func (mr *mediaResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusCreated)
	return nil
}

// uploadMedia stores a service or payment method image in the bucket and
// returns its public URL.
func (s *Server) uploadMedia(w http.ResponseWriter, r *http.Request) {
	if s.files == nil {
		render.Render(w, r, resp.ErrInternalServerError(fmt.Errorf("media storage is not configured")))
		return
	}
	data := &mediaRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, resp.ErrInvalidRequest(err))
		return
	}

	folder := strings.Trim(data.Folder, "/")
	if folder == "" {
		folder = s.files.GetBaseFolder()
	}
	name := uuid.New().String()

	var (
		url string
		err error
	)
	if data.RawB64Image != "" {
		url, err = s.files.UploadImageFromBase64(r.Context(), data.RawB64Image, folder, name)
	} else {
		url, err = s.files.UploadImageFromURL(r.Context(), data.URL, folder, name)
	}
	if err != nil {
		render.Render(w, r, resp.ErrInternalServerError(err))
		return
	}
	render.Render(w, r, &mediaResponse{URL: url})
}
