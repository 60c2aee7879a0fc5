package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
)

// Entry handlers expose the cache facade over HTTP. The path after the
// namespace carries positional key arguments and query parameters carry
// named ones, mirroring the programmatic key builder.

type setEntryRequest struct {
	Value      interface{} `json:"value"`
	TTLSeconds int         `json:"ttl_seconds"`
}

// GetEntry reads a value through the tiers
func (h *Handlers) GetEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	namespace := vars["namespace"]
	args := pathArgs(vars["args"])
	kwargs := queryKwargs(r.URL.Query())

	value, found := h.service.Get(r.Context(), namespace, args, kwargs)
	if !found {
		http.Error(w, "Entry not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"value": value,
	})
}

// PutEntry stores a value under the namespace's write strategy. A zero or
// missing ttl_seconds resolves to the namespace TTL.
func (h *Handlers) PutEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	namespace := vars["namespace"]
	args := pathArgs(vars["args"])
	kwargs := queryKwargs(r.URL.Query())

	var req setEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	key, err := h.service.Set(r.Context(), namespace, req.Value, req.TTLSeconds, args, kwargs)
	if err != nil {
		http.Error(w, "Failed to store entry", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"key": key,
	})
}

// DeleteEntry removes a key from both tiers
func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	namespace := vars["namespace"]
	args := pathArgs(vars["args"])
	kwargs := queryKwargs(r.URL.Query())

	deleted := h.service.Delete(r.Context(), namespace, args, kwargs)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"deleted": deleted,
	})
}

// pathArgs splits the path remainder into positional key arguments,
// dropping empty segments from doubled or trailing slashes
func pathArgs(rest string) []string {
	if rest == "" {
		return nil
	}
	var args []string
	for _, part := range strings.Split(rest, "/") {
		if part != "" {
			args = append(args, part)
		}
	}
	return args
}

// queryKwargs flattens query parameters into named key arguments, keeping
// the first value of repeated parameters
func queryKwargs(values url.Values) map[string]string {
	if len(values) == 0 {
		return nil
	}
	kwargs := make(map[string]string, len(values))
	for name, vals := range values {
		if len(vals) > 0 {
			kwargs[name] = vals[0]
		}
	}
	return kwargs
}
