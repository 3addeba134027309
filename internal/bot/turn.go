package bot

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/dtroode/catalog-bot/internal/model"
)

const dataSeparator = ":"

// data builds callback data from a tag and its arguments.
func data(tag string, args ...string) string {
	return strings.Join(append([]string{tag}, args...), dataSeparator)
}

// parseData splits callback data into its tag and arguments.
func parseData(raw string) (string, []string) {
	parts := strings.Split(raw, dataSeparator)
	return parts[0], parts[1:]
}

// turn is the handling of one event for one user.
type turn struct {
	ctx      context.Context
	ev       model.Event
	sess     *model.Session
	admin    bool
	out      []model.Action
	answered bool
	engine   *Engine
}

func (t *turn) userID() int64 { return t.ev.SenderID }

// ref stores value in the session and returns a short token for callback data.
// Callback data is limited to 64 bytes, catalog keys are not.
func (t *turn) ref(value string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	r := strconv.FormatUint(uint64(h.Sum32()), 36)
	if t.sess.Refs == nil {
		t.sess.Refs = map[string]string{}
	}
	t.sess.Refs[r] = value
	return r
}

// deref resolves a token produced by ref. Unknown tokens come from stale screens.
func (t *turn) deref(args []string, i int) (string, error) {
	if i >= len(args) {
		return "", model.ErrNotFound
	}
	v, ok := t.sess.Refs[args[i]]
	if !ok {
		return "", model.ErrNotFound
	}
	return v, nil
}

// screen renders a menu: button presses edit the pressed message, anything else sends a new one.
func (t *turn) screen(text string, kb model.Keyboard) {
	if t.ev.Kind == model.EventButton && t.ev.MessageID != 0 {
		t.out = append(t.out, model.Action{
			Kind:     model.ActionEdit,
			ChatID:   t.ev.ChatID,
			Text:     text,
			Keyboard: kb,
			Target:   model.MessageRef{ChatID: t.ev.ChatID, MessageID: t.ev.MessageID},
		})
		return
	}
	t.send(text, kb)
}

// send always delivers a new tracked message.
func (t *turn) send(text string, kb model.Keyboard) {
	t.out = append(t.out, model.Action{Kind: model.ActionSend, ChatID: t.ev.ChatID, Text: text, Keyboard: kb, Track: true})
}

// notice sends a confirmation that deletes itself.
func (t *turn) notice(text string) {
	t.out = append(t.out, model.Action{Kind: model.ActionSend, ChatID: t.ev.ChatID, Text: text, DeleteAfter: t.engine.confirmTTL})
}

// alert answers the pressed button with a popup, or sends a notice for other events.
func (t *turn) alert(text string) {
	if t.ev.Kind != model.EventButton {
		t.notice(text)
		return
	}
	t.answered = true
	t.out = append(t.out, model.Action{Kind: model.ActionAnswerCallback, CallbackID: t.ev.CallbackID, Text: text, Alert: true})
}

func (t *turn) media(kind model.MediaKind, mediaID, caption string, kb model.Keyboard) {
	action := model.ActionSendPhoto
	if kind == model.MediaVideo {
		action = model.ActionSendVideo
	}
	t.out = append(t.out, model.Action{Kind: action, ChatID: t.ev.ChatID, MediaID: mediaID, Text: caption, Keyboard: kb, Track: true})
}

func (t *turn) deleteMessage(ref model.MessageRef) {
	if ref.IsZero() {
		return
	}
	t.out = append(t.out, model.Action{Kind: model.ActionDelete, ChatID: ref.ChatID, Target: ref})
}

// pressed is the message holding the pressed button.
func (t *turn) pressed() model.MessageRef {
	return model.MessageRef{ChatID: t.ev.ChatID, MessageID: t.ev.MessageID}
}

// goTo resets scratch state and enters state.
func (t *turn) goTo(state model.State) {
	t.sess.Reset(state)
}

// await enters a waiting state keeping the scratch state, and sends its prompt.
func (t *turn) await(state model.State) {
	t.sess.State = state
	t.prompt()
}

// prompt re-sends the instruction of the current waiting state.
func (t *turn) prompt() {
	text, ok := prompts[t.sess.State]
	if !ok {
		return
	}
	kb := model.Keyboard{}
	switch t.sess.State {
	case StateAwaitProductMedia:
		kb = append(kb, []model.Button{{Text: "⏩ Skip", Data: data(tagMediaDone)}})
	case StateAwaitFieldValue:
		if t.sess.Pending.Field == model.FieldMedia {
			text = "📸 Send the new photos or videos, then press Finish. The old media will be replaced."
			kb = append(kb, []model.Button{{Text: "✅ Finish", Data: data(tagMediaDone)}})
		}
	case StateAwaitBanner:
		kb = append(kb, []model.Button{{Text: "🗑️ Remove banner", Data: data(tagNoBanner)}})
	}
	kb = append(kb, []model.Button{{Text: "🔙 Cancel", Data: data(tagCancel)}})
	t.send(text, kb)
}
