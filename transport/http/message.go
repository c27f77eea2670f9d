package http

import (
	"net/http"

	"github.com/matryer/way"
	"github.com/nakamauwu/hireloop/types"
)

func (h *Handler) messages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := parseLimit(q)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	out, err := h.Service.Messages(ctx, types.ListMessages{
		ConversationID: way.Param(ctx, "conversation_id"),
		Limit:          limit,
		Before:         emptyStrPtr(q.Get("before")),
		After:          emptyStrPtr(q.Get("after")),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if out.Messages == nil {
		out.Messages = []types.Message{} // non null array
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var in types.SendMessage
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.ConversationID = way.Param(ctx, "conversation_id")
	out, err := h.Service.SendMessage(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *Handler) scheduleInterview(w http.ResponseWriter, r *http.Request) {
	var in types.ScheduleInterview
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.ConversationID = way.Param(ctx, "conversation_id")
	out, err := h.Service.ScheduleInterview(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *Handler) updateInterviewStatus(w http.ResponseWriter, r *http.Request) {
	var in types.UpdateInterviewStatus
	if err := h.decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	ctx := r.Context()
	in.MessageID = way.Param(ctx, "message_id")
	out, err := h.Service.UpdateInterviewStatus(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
