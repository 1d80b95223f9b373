package posts

import (
	"errors"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/razzo/internal/services/web/platform/errors"
)

// DefaultMaxUploadBytes bounds an uploaded image when no limit is configured.
const DefaultMaxUploadBytes int64 = 5 << 20

// formOverheadBytes covers the text fields and multipart framing around the image.
const formOverheadBytes int64 = 1 << 20

var (
	errImageOnly     = apperrors.EK(apperrors.KindInvalidInput, "error.web.posts.image_only", "uploaded file is not an image")
	errImageTooLarge = apperrors.EK(apperrors.KindInvalidInput, "error.web.posts.image_too_large", "uploaded image is too large")
	errInvalidForm   = apperrors.EK(apperrors.KindInvalidInput, "error.web.message.invalid_form", "post form could not be parsed")
)

// parsePostForm reads the title, body and optional image fields. Both
// multipart and urlencoded bodies are accepted.
func parsePostForm(w http.ResponseWriter, r *http.Request, maxUpload int64) (postForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+formOverheadBytes)
	err := r.ParseMultipartForm(maxUpload)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return postForm{}, errImageTooLarge
		}
		return postForm{}, errInvalidForm
	}
	form := postForm{
		Title:       r.PostFormValue("title"),
		Body:        r.PostFormValue("body"),
		RemoveImage: r.PostFormValue("remove_image") != "",
	}
	image, err := readImage(r, maxUpload)
	if err != nil {
		return form, err
	}
	form.Image = image
	return form, nil
}

func readImage(r *http.Request, maxUpload int64) (*imageFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errInvalidForm
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		return nil, errInvalidForm
	}
	if len(content) == 0 {
		return nil, nil
	}
	if int64(len(content)) > maxUpload {
		return nil, errImageTooLarge
	}
	contentType := http.DetectContentType(content)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errImageOnly
	}
	return &imageFile{Filename: header.Filename, ContentType: contentType, Content: content}, nil
}
