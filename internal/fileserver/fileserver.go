// Package fileserver answers every request with the bytes of a file.
package fileserver

import (
	"rstp/internal/report"
	"rstp/internal/request"
	"rstp/internal/resolver"
	"rstp/internal/response"
	"rstp/internal/server"
)

// NewHandler returns a handler that resolves req.Path with res and always
// responds 200, whichever tier of the fallback chain produced the content.
func NewHandler(res *resolver.Resolver, rep report.Reporter) server.Handler {
	if rep == nil {
		rep = report.Discard
	}

	return func(w *response.Writer, req *request.Request) {
		resolved := res.Resolve(req.Path)

		rep.Report(report.Event{
			Kind:         report.Resolved,
			Method:       req.Method,
			Path:         req.Path,
			ResolvedPath: resolved.Path,
			MIME:         resolved.MIME,
			Tier:         resolved.Tier.String(),
		})

		if err := w.WriteStatusLine(response.StatusOK); err != nil {
			return
		}
		if err := w.WriteHeaders(response.GetDefaultHeaders(resolved.MIME, len(resolved.Content))); err != nil {
			return
		}
		w.WriteBody(resolved.Content)
	}
}
