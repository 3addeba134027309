package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
	"github.com/dtroode/catalog-bot/internal/service"
)

// Callback data tags.
const (
	tagHome         = "home"
	tagAdmin        = "admin"
	tagCancel       = "cancel"
	tagNoop         = "noop"
	tagCatalog      = "catalog"
	tagCategory     = "cat"
	tagProduct      = "prod"
	tagMedia        = "media"
	tagMediaNav     = "mnav"
	tagMediaBack    = "mback"
	tagOrder        = "order"
	tagInfo         = "info"
	tagAdminAction  = "a"
	tagGroup        = "grp"
	tagGroupAction  = "grpa"
	tagButton       = "ub"
	tagButtonAction = "uba"
	tagSelect       = "sel"
	tagField        = "field"
	tagAction       = "op"
	tagPickGroup    = "pick"
	tagMediaDone    = "done"
	tagNoBanner     = "nobanner"
	tagConfirm      = "yes"
)

type shape int

const (
	shapeText shape = iota
	shapeMedia
	shapeButton
)

type route struct {
	shape  shape
	tag    string
	admin  bool
	handle func(t *turn, args []string) error
}

func (r route) matches(ev model.Event, tag string) bool {
	switch r.shape {
	case shapeText:
		return ev.Kind == model.EventText
	case shapeMedia:
		return ev.Kind == model.EventPhoto || ev.Kind == model.EventVideo
	default:
		return ev.Kind == model.EventButton && r.tag == tag
	}
}

// Services are the stores the engine reads and mutates.
type Services struct {
	Access      *service.Access
	Groups      *service.Groups
	Catalog     *service.Catalog
	Settings    *service.Settings
	Broadcaster model.Broadcaster
}

// Engine is the conversation state machine. It turns one event and the sender's
// session into the next session and a list of outbound actions.
type Engine struct {
	access      *service.Access
	groups      *service.Groups
	catalog     *service.Catalog
	settings    *service.Settings
	broadcaster model.Broadcaster
	confirmTTL  time.Duration
	now         func() time.Time
	logger      *logger.Logger

	routes map[model.State][]route
	admin  map[string]func(t *turn) error
}

func NewEngine(svc Services, confirmTTL time.Duration, now func() time.Time, logger *logger.Logger) *Engine {
	if now == nil {
		now = time.Now
	}
	e := &Engine{
		access:      svc.Access,
		groups:      svc.Groups,
		catalog:     svc.Catalog,
		settings:    svc.Settings,
		broadcaster: svc.Broadcaster,
		confirmTTL:  confirmTTL,
		now:         now,
		logger:      logger,
	}
	e.routes = e.buildRoutes()
	e.admin = e.buildAdminActions()
	return e
}

func (e *Engine) buildRoutes() map[model.State][]route {
	text := func(h func(t *turn) error) route {
		return route{shape: shapeText, handle: func(t *turn, _ []string) error { return h(t) }}
	}
	media := func(h func(t *turn) error) route {
		return route{shape: shapeMedia, handle: func(t *turn, _ []string) error { return h(t) }}
	}
	button := func(tag string, h func(t *turn, args []string) error) route {
		return route{shape: shapeButton, tag: tag, handle: h}
	}
	adminButton := func(tag string, h func(t *turn, args []string) error) route {
		return route{shape: shapeButton, tag: tag, admin: true, handle: h}
	}

	return map[model.State][]route{
		StateBrowsing: {
			button(tagCatalog, e.onCatalog),
			button(tagCategory, e.onCategory),
			button(tagProduct, e.onProduct),
			button(tagMedia, e.onMedia),
			button(tagMediaNav, e.onMedia),
			button(tagMediaBack, e.onMediaBack),
			button(tagOrder, e.onOrder),
			button(tagInfo, e.onInfo),
			button(tagNoop, func(*turn, []string) error { return nil }),
			adminButton(tagAdminAction, e.onAdminAction),
			adminButton(tagGroup, e.onGroup),
			adminButton(tagGroupAction, e.onGroupAction),
			adminButton(tagButton, e.onButtonAdmin),
			adminButton(tagButtonAction, e.onButtonAction),
		},
		StateSelectCategory: {adminButton(tagSelect, e.onSelectCategory)},
		StateSelectProduct:  {adminButton(tagSelect, e.onSelectProduct)},
		StateSelectField:    {adminButton(tagField, e.onSelectField)},
		StateSelectAction:   {adminButton(tagAction, e.onCategoryAction)},
		StateConfirm:        {adminButton(tagConfirm, e.onConfirm)},

		StateAwaitCategoryGroup:      {adminButton(tagPickGroup, e.onPickGroup)},
		StateAwaitCategoryName:       {text(e.onCategoryName)},
		StateAwaitNewCategoryName:    {text(e.onNewCategoryName)},
		StateAwaitProductName:        {text(e.onProductName)},
		StateAwaitProductPrice:       {text(e.onProductPrice)},
		StateAwaitProductDescription: {text(e.onProductDescription)},
		StateAwaitProductMedia: {
			media(e.onProductMedia),
			adminButton(tagMediaDone, func(t *turn, _ []string) error { return e.onProductMediaDone(t) }),
		},
		StateAwaitFieldValue: {
			text(e.onFieldValue),
			media(e.onFieldMedia),
			adminButton(tagMediaDone, func(t *turn, _ []string) error { return e.onFieldMediaDone(t) }),
		},
		StateAwaitButtonName:  {text(e.onButtonName)},
		StateAwaitButtonValue: {text(e.onButtonValue)},
		StateAwaitContact:     {text(e.onContact)},
		StateAwaitWelcome:     {text(e.onWelcome)},
		StateAwaitOrderButton: {text(e.onOrderButton)},
		StateAwaitBanner: {
			media(e.onBanner),
			adminButton(tagNoBanner, func(t *turn, _ []string) error { return e.onRemoveBanner(t) }),
		},
		StateAwaitGroupName: {text(e.onGroupName)},
		StateAwaitMemberID:  {text(e.onMemberID)},
		StateAwaitBroadcast: {text(e.onBroadcast), media(e.onBroadcast)},
	}
}

// Handle processes one event. It never fails: errors and panics are turned into
// user-facing messages and the session is moved to a stable state.
func (e *Engine) Handle(ctx context.Context, sess *model.Session, ev model.Event) (out []model.Action) {
	sess.UserID = ev.SenderID
	t := &turn{
		ctx:    ctx,
		ev:     ev,
		sess:   sess,
		admin:  e.access.IsAdmin(ev.SenderID),
		engine: e,
	}

	defer func() {
		if r := recover(); r != nil {
			e.fail(t, fmt.Errorf("handler panic: %v", r))
		}
		out = t.finish()
	}()

	if err := e.dispatch(t); err != nil {
		e.fail(t, err)
	}
	return t.out
}

func (e *Engine) dispatch(t *turn) error {
	uid := t.userID()

	banned, err := e.access.IsBanned(t.ctx, uid)
	if err != nil {
		return err
	}
	if banned {
		t.goTo(StateUnauthenticated)
		t.alert(textBanned)
		return nil
	}

	authorized, err := e.access.IsAuthorized(t.ctx, uid)
	if err != nil {
		return err
	}
	if !authorized {
		return e.unauthenticated(t)
	}
	if t.sess.State == "" || t.sess.State == StateUnauthenticated {
		t.goTo(StateBrowsing)
	}

	if t.ev.Kind == model.EventCommand {
		return e.onCommand(t)
	}

	var tag string
	var args []string
	if t.ev.Kind == model.EventButton {
		tag, args = parseData(t.ev.Data)
		switch tag {
		case tagHome:
			t.goTo(StateBrowsing)
			return e.renderHome(t, false)
		case tagAdmin:
			if !t.admin {
				return model.ErrUnauthorized
			}
			t.goTo(StateBrowsing)
			return e.renderAdmin(t)
		case tagCancel:
			t.goTo(StateBrowsing)
			return e.renderStable(t)
		}
	}

	for _, r := range e.routes[t.sess.State] {
		if !r.matches(t.ev, tag) {
			continue
		}
		if r.admin && !t.admin {
			return model.ErrUnauthorized
		}
		return r.handle(t, args)
	}

	return e.fallback(t)
}

// fallback re-renders the current screen for events the state does not accept.
func (e *Engine) fallback(t *turn) error {
	if _, ok := prompts[t.sess.State]; ok {
		t.prompt()
		return nil
	}
	t.goTo(StateBrowsing)
	return e.renderStable(t)
}

// renderStable shows the admin menu to admins and the home menu to everyone else.
func (e *Engine) renderStable(t *turn) error {
	if t.sess.State == StateUnauthenticated {
		t.send(textAskCode, nil)
		return nil
	}
	if t.admin {
		return e.renderAdmin(t)
	}
	return e.renderHome(t, false)
}

func (e *Engine) fail(t *turn, err error) {
	t.out = nil
	t.answered = false

	switch {
	case errors.Is(err, model.ErrConflict):
		t.notice(textConflict)
		t.prompt()
		return
	case errors.Is(err, model.ErrInvalidName), errors.Is(err, model.ErrInvalidValue):
		t.notice(textInvalid)
		t.prompt()
		return
	case errors.Is(err, model.ErrNotFound):
		t.notice(textNotFound)
	case errors.Is(err, model.ErrForbidden), errors.Is(err, model.ErrUnauthorized):
		t.alert(textForbidden)
	case errors.Is(err, model.ErrSoldOut):
		t.notice(textSoldOutEdit)
	case errors.Is(err, model.ErrBroadcastDisabled):
		t.notice(textBroadcastDisabled)
	default:
		e.logger.Error("Engine: handler failed",
			"user_id", t.userID(),
			"state", string(t.sess.State),
			"error", err.Error())
		t.notice(textInternalError)
	}

	if t.sess.State != StateUnauthenticated {
		t.goTo(StateBrowsing)
	}
	if rerr := e.renderStable(t); rerr != nil {
		e.logger.Error("Engine: failed to render menu", "user_id", t.userID(), "error", rerr.Error())
	}
}

// finish acknowledges button presses that no handler answered.
func (t *turn) finish() []model.Action {
	if t.ev.Kind != model.EventButton || t.answered || t.ev.CallbackID == "" {
		return t.out
	}
	ack := model.Action{Kind: model.ActionAnswerCallback, CallbackID: t.ev.CallbackID}
	return append([]model.Action{ack}, t.out...)
}
