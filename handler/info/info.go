// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package info renders a page describing the running server.
package info

import (
	"context"
	"slices"
	"strconv"

	"github.com/z5labs/tinyhttp/handler"
	"github.com/z5labs/tinyhttp/request"
	"github.com/z5labs/tinyhttp/response"
)

// Template is the name of the rendered template.
const Template = "server-info.html"

// Status is a single status code row of the page.
type Status struct {
	Code    int
	Message string
}

// Handler answers GET requests with the server info page and every other
// method with 400.
type Handler struct{}

var _ handler.Handler = Handler{}

// Handle implements the [handler.Handler] interface.
func (Handler) Handle(ctx context.Context, sc handler.Context, req *request.Request, resp response.Writable) error {
	if req.Method() != "GET" {
		resp.SetStatus(400)
		return nil
	}

	si := sc.ServerInfo()
	threadCount := "UNLIMITED"
	if si.ThreadCount > 0 {
		threadCount = strconv.Itoa(si.ThreadCount)
	}

	body, err := sc.Render(Template, map[string]any{
		"ServerName":  si.Name,
		"ServerPort":  si.Port,
		"ThreadCount": threadCount,
		"Methods":     sc.SupportedMethods(),
		"Statuses":    sortedStatuses(sc.Statuses()),
	})
	if err != nil {
		return err
	}
	resp.SetBodyString(body)
	return nil
}

func sortedStatuses(m map[int]string) []Status {
	statuses := make([]Status, 0, len(m))
	for code, msg := range m {
		statuses = append(statuses, Status{Code: code, Message: msg})
	}
	slices.SortFunc(statuses, func(a, b Status) int {
		return a.Code - b.Code
	})
	return statuses
}
