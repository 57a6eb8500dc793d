package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
)

var ErrMalformed = errors.New("malformed multipart body")

// Part - один сегмент multipart-тела: либо текстовое поле, либо файл
type Part struct {
	Header   textproto.MIMEHeader
	Name     string
	Filename string
	Content  []byte
}

func (p Part) IsFile() bool {
	return p.Filename != ""
}

func (p Part) Text() string {
	return string(p.Content)
}

// Parse разбирает сырое тело запроса по boundary из Content-Type.
// Семантику полей (обязательность и т.д.) проверяет вызывающий.
func Parse(body []byte, contentType string) ([]Part, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("%w: content type %q is not multipart", ErrMalformed, mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("%w: missing boundary", ErrMalformed)
	}

	mr := multipart.NewReader(bytes.NewReader(body), boundary)

	var parts []Part
	for {
		mp, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
		}

		content, err := io.ReadAll(mp)
		mp.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
		}

		parts = append(parts, Part{
			Header:   mp.Header,
			Name:     mp.FormName(),
			Filename: mp.FileName(),
			Content:  content,
		})
	}
	return parts, nil
}
