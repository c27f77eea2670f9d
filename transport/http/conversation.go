package http

import (
	"net/http"

	"github.com/matryer/way"
	"github.com/nakamauwu/hireloop/types"
)

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	out, err := h.Service.Conversations(ctx, types.ListConversations{Limit: limit})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out == nil {
		out = []types.Conversation{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) getOrCreateConversation(w http.ResponseWriter, r *http.Request) {
	var in types.GetOrCreateConversation
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	out, err := h.Service.GetOrCreateConversation(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.Service.Conversation(ctx, types.RetrieveConversation{
		ConversationID: way.Param(ctx, "conversation_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) markConversationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.Service.MarkConversationRead(ctx, types.MarkConversationRead{
		ConversationID: way.Param(ctx, "conversation_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) searchContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := parseLimit(q)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	in := types.SearchContacts{
		Query: q.Get("q"),
		Limit: limit,
	}

	if q.Has("role") {
		in.Role = new(types.Role(q.Get("role")))
	}

	ctx := r.Context()
	out, err := h.Service.SearchContacts(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
