package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ai-tools/internal/app"
	"ai-tools/internal/embeddings"
	"ai-tools/internal/httputil"
	"ai-tools/internal/links"
	"ai-tools/internal/llm"
	"ai-tools/internal/store"
)

type chatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages" validate:"required,dive"`
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input" validate:"required"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("gateway listening", "addr", addr)
	if err := http.ListenAndServe(addr, newRouter(deps)); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log, deps.Config.CORSAllowedOrigins)

	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	r.Post("/api/chat", chatHandler(deps))
	r.Post("/api/embeddings", embeddingsHandler(deps))
	r.Get("/api/links/similar", similarHandler(deps))
	r.Get("/api/links/lookup", lookupHandler(deps))
	r.Get("/contextualize-link", contextualizeHandler(deps))
	r.Get("/redirect/{client}/*", redirectHandler(deps))
	return r
}

func chatHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid request body", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		messages := make([]llm.Message, 0, len(req.Messages))
		for _, m := range req.Messages {
			msg, err := llm.NewMessage(m.Role, m.Content)
			if err != nil {
				httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
				return
			}
			messages = append(messages, msg)
		}

		content, err := deps.LLM.Complete(r.Context(), messages, req.Model)
		if err != nil {
			httputil.Fail(deps.Log, w, "chat completion failed", err, http.StatusBadGateway)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"content": content})
	}
}

func embeddingsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid request body", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		vectors, err := deps.LLM.Embed(r.Context(), req.Input, req.Model)
		if err != nil {
			httputil.Fail(deps.Log, w, "embedding failed", err, http.StatusBadGateway)
			return
		}
		if vectors == nil {
			vectors = []embeddings.Vector{}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": vectors})
	}
}

func contextualizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link := r.URL.Query().Get("link")
		record, err := deps.Links.Contextualize(r.Context(), link)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, links.ErrLinkRequired) || errors.Is(err, links.ErrInvalidLink) {
				status = http.StatusBadRequest
			}
			deps.Log.Error("contextualize failed", "link", link, "err", err)
			httputil.WriteResult(w, r, status, err.Error(), nil)
			return
		}
		httputil.WriteResult(w, r, http.StatusOK, "", map[string]any{
			"link":                record.Link,
			"contextualized_link": record.ContextualizedLink,
		})
	}
}

func redirectHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := chi.URLParam(r, "client")
		contextualized, err := url.PathUnescape(chi.URLParam(r, "*"))
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid link", err, http.StatusBadRequest)
			return
		}

		target, err := deps.Links.Resolve(r.Context(), contextualized)
		switch {
		case errors.Is(err, links.ErrLinkRequired):
			httputil.Fail(deps.Log, w, "link is required", err, http.StatusBadRequest)
			return
		case errors.Is(err, store.ErrLinkNotFound):
			httputil.Fail(deps.Log, w, "link not found", err, http.StatusNotFound)
			return
		case err != nil:
			httputil.Fail(deps.Log, w, "failed to resolve link", err, http.StatusInternalServerError)
			return
		}

		deps.Log.Info("redirecting", "client", client, "contextualized_link", contextualized)
		http.Redirect(w, r, target, http.StatusFound)
	}
}

func similarHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		k := links.DefaultSimilarK
		if raw := r.URL.Query().Get("k"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				httputil.Fail(deps.Log, w, "k must be an integer", err, http.StatusBadRequest)
				return
			}
			k = n
		}

		results, err := deps.Links.Similar(r.Context(), query, k)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, links.ErrQueryRequired) {
				status = http.StatusBadRequest
			}
			httputil.Fail(deps.Log, w, "similarity search failed", err, status)
			return
		}

		out := make([]map[string]any, 0, len(results))
		for _, res := range results {
			out = append(out, map[string]any{
				"link":                res.Link.Link,
				"contextualized_link": res.Link.ContextualizedLink,
				"score":               res.Score,
			})
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"results": out})
	}
}

func lookupHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link := r.URL.Query().Get("link")
		record, err := deps.Links.Lookup(r.Context(), link)
		switch {
		case errors.Is(err, links.ErrLinkRequired):
			httputil.Fail(deps.Log, w, "link is required", err, http.StatusBadRequest)
			return
		case errors.Is(err, store.ErrLinkNotFound):
			httputil.Fail(deps.Log, w, "link not found", err, http.StatusNotFound)
			return
		case err != nil:
			httputil.Fail(deps.Log, w, "failed to look up link", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"id":                  record.ID,
			"link":                record.Link,
			"contextualized_link": record.ContextualizedLink,
		})
	}
}
