package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/factbase/pkg/utils/errutil"
	"github.com/secmon-lab/factbase/pkg/utils/safe"
)

//go:embed templates/docs.html
var templateFS embed.FS

var docsTemplate = template.Must(template.ParseFS(templateFS, "templates/docs.html"))

type docsEndpoint struct {
	Method   string
	Path     string
	Params   string
	Response string
}

type docsPage struct {
	Name        string
	Description string
	Version     string
	Endpoints   []docsEndpoint
}

var endpoints = []docsEndpoint{
	{Method: "GET", Path: "/fact/{fact_id}", Params: "fact_id: integer (path)", Response: `{"id": int, "fact": string}`},
	{Method: "GET", Path: "/facts/", Params: "ids: integer, repeatable, optional (query)", Response: `[{"id": int, "fact": string}]`},
	{Method: "POST", Path: "/post/", Params: `{"fact": string} (JSON body)`, Response: `{"id": int, "fact": string}`},
	{Method: "GET", Path: "/delete/", Params: "fact_ids: integer, repeatable, required (query)", Response: "null"},
}

func docsHandler(info ServiceInfo) http.HandlerFunc {
	page := docsPage{
		Name:        info.Name,
		Description: info.Description,
		Version:     info.Version,
		Endpoints:   endpoints,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := docsTemplate.Execute(&buf, page); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to render docs"), http.StatusInternalServerError, "")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		safe.Write(r.Context(), w, buf.Bytes())
	}
}
