package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/catalog-bot/internal/model"
)

func (e *Engine) toggleAccess(t *turn) error {
	required, err := e.access.Toggle(t.ctx)
	if err != nil {
		return err
	}
	if required {
		t.notice("🔒 Access code is now required.")
	} else {
		t.notice("🔓 Access code is no longer required.")
	}
	return e.renderAdmin(t)
}

func (e *Engine) onGroup(t *turn, args []string) error {
	name, err := t.deref(args, 0)
	if err != nil {
		return err
	}
	return e.renderGroup(t, name)
}

func (e *Engine) onGroupAction(t *turn, args []string) error {
	name, err := t.deref(args, 0)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return e.renderGroup(t, name)
	}

	t.goTo(StateBrowsing)
	t.sess.Pending.Group = name
	switch args[1] {
	case "add":
		t.sess.Pending.Kind = flowAddMember
		t.await(StateAwaitMemberID)
	case "remove":
		t.sess.Pending.Kind = flowRemoveMember
		t.await(StateAwaitMemberID)
	case "delete":
		t.sess.Pending.Kind = flowDeleteGroup
		confirm(t, fmt.Sprintf("🗑️ Delete group <b>%s</b>? Its categories stay hidden until a group with the same name is created.", html.EscapeString(name)))
	default:
		return e.renderGroup(t, name)
	}
	return nil
}

func (e *Engine) onGroupName(t *turn) error {
	name := strings.TrimSpace(t.ev.Text)
	if err := e.groups.Create(t.ctx, name); err != nil {
		return err
	}
	t.goTo(StateBrowsing)
	t.notice(fmt.Sprintf("✅ Group %s created.", html.EscapeString(name)))
	return e.renderGroups(t)
}

func (e *Engine) onMemberID(t *turn) error {
	id, err := strconv.ParseInt(strings.TrimSpace(t.ev.Text), 10, 64)
	if err != nil || id <= 0 {
		return model.ErrInvalidValue
	}

	group := t.sess.Pending.Group
	var done string
	switch t.sess.Pending.Kind {
	case flowAddMember:
		err = e.groups.AddMember(t.ctx, group, id)
		done = fmt.Sprintf("✅ User %d added.", id)
	case flowRemoveMember:
		err = e.groups.RemoveMember(t.ctx, group, id)
		done = fmt.Sprintf("✅ User %d removed.", id)
	default:
		return e.fallback(t)
	}
	if errors.Is(err, model.ErrConflict) {
		t.goTo(StateBrowsing)
		t.notice("ℹ️ This user is already a member.")
		return e.renderGroup(t, group)
	}
	if err != nil {
		return err
	}

	t.goTo(StateBrowsing)
	t.notice(done)
	return e.renderGroup(t, group)
}

func (e *Engine) onButtonAdmin(t *turn, args []string) error {
	id, err := t.deref(args, 0)
	if err != nil {
		return err
	}
	return e.renderButton(t, id)
}

func (e *Engine) onButtonAction(t *turn, args []string) error {
	id, err := t.deref(args, 0)
	if err != nil {
		return err
	}
	if _, err := e.settings.Button(t.ctx, id); err != nil {
		return err
	}
	if len(args) < 2 {
		return e.renderButton(t, id)
	}

	t.goTo(StateBrowsing)
	t.sess.Pending.ButtonID = id
	switch args[1] {
	case "name":
		t.sess.Pending.Kind = flowRenameButton
		t.await(StateAwaitButtonName)
	case "value":
		t.sess.Pending.Kind = flowButtonValue
		t.await(StateAwaitButtonValue)
	case "delete":
		t.sess.Pending.Kind = flowDeleteButton
		confirm(t, "🗑️ Delete this button?")
	default:
		return e.renderButton(t, id)
	}
	return nil
}

func (e *Engine) onButtonName(t *turn) error {
	name := strings.TrimSpace(t.ev.Text)
	if name == "" {
		return model.ErrInvalidName
	}

	if t.sess.Pending.Kind == flowRenameButton {
		if err := e.settings.RenameButton(t.ctx, t.sess.Pending.ButtonID, name); err != nil {
			return err
		}
		return e.buttonsDone(t, "✅ Button renamed.")
	}

	t.sess.Pending.Local = name
	t.await(StateAwaitButtonValue)
	return nil
}

func (e *Engine) onButtonValue(t *turn) error {
	value := t.ev.Text
	if t.sess.Pending.Kind == flowButtonValue {
		if err := e.settings.SetButtonValue(t.ctx, t.sess.Pending.ButtonID, value); err != nil {
			return err
		}
		return e.buttonsDone(t, "✅ Button updated.")
	}

	if _, err := e.settings.AddButton(t.ctx, t.sess.Pending.Local, value); err != nil {
		if errors.Is(err, model.ErrConflict) {
			t.sess.State = StateAwaitButtonName
		}
		return err
	}
	return e.buttonsDone(t, "✅ Button added.")
}

func (e *Engine) buttonsDone(t *turn, text string) error {
	t.goTo(StateBrowsing)
	t.notice(text)
	return e.renderButtons(t)
}

func (e *Engine) onContact(t *turn) error {
	contact, err := e.settings.SetContact(t.ctx, t.ev.Text)
	if err != nil {
		return err
	}
	return e.adminDone(t, "✅ Contact set to "+html.EscapeString(contact.Link()))
}

func (e *Engine) onWelcome(t *turn) error {
	if err := e.settings.SetWelcome(t.ctx, t.ev.Text); err != nil {
		return err
	}
	return e.adminDone(t, "✅ Welcome message updated.")
}

func (e *Engine) onOrderButton(t *turn) error {
	button, err := e.settings.SetOrderButton(t.ctx, t.ev.Text)
	if err != nil {
		return err
	}
	return e.adminDone(t, "✅ Order button set to "+html.EscapeString(button.Value))
}

func (e *Engine) onBanner(t *turn) error {
	if t.ev.Kind != model.EventPhoto {
		t.prompt()
		return nil
	}
	if err := e.settings.SetBanner(t.ctx, t.ev.MediaID); err != nil {
		return err
	}
	return e.adminDone(t, "✅ Banner updated.")
}

func (e *Engine) onRemoveBanner(t *turn) error {
	if err := e.settings.SetBanner(t.ctx, ""); err != nil {
		return err
	}
	return e.adminDone(t, "✅ Banner removed.")
}

// onBroadcast hands the message to the external broadcaster for every authorized user.
func (e *Engine) onBroadcast(t *turn) error {
	recipients, err := e.access.AuthorizedUsers(t.ctx)
	if err != nil {
		return err
	}

	req := model.BroadcastRequest{
		ID:         uuid.NewString(),
		AdminID:    t.userID(),
		Text:       t.ev.Text,
		Recipients: recipients,
		CreatedAt:  e.now(),
	}
	switch t.ev.Kind {
	case model.EventPhoto:
		req.MediaID, req.MediaKind = t.ev.MediaID, model.MediaPhoto
	case model.EventVideo:
		req.MediaID, req.MediaKind = t.ev.MediaID, model.MediaVideo
	}
	if req.Text == "" && req.MediaID == "" {
		return model.ErrInvalidValue
	}

	if err := e.broadcaster.Broadcast(t.ctx, req); err != nil {
		return err
	}
	e.logger.Info("Engine: broadcast queued", "broadcast_id", req.ID, "recipients", len(recipients))
	return e.adminDone(t, fmt.Sprintf("📢 Broadcast queued for %d users.", len(recipients)))
}
