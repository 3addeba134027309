package bot

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/dtroode/catalog-bot/internal/model"
	"github.com/dtroode/catalog-bot/internal/service"
)

// unauthenticated handles events from users that have not redeemed a code.
func (e *Engine) unauthenticated(t *turn) error {
	isStart := t.ev.Kind == model.EventCommand && t.ev.Command == "start"
	if isStart {
		e.cleanup(t)
	}
	if t.ev.Kind != model.EventText {
		t.goTo(StateUnauthenticated)
		t.send(textAskCode, nil)
		return nil
	}

	t.goTo(StateUnauthenticated)
	result, err := e.access.Verify(t.ctx, t.ev.Text, t.userID())
	if err != nil {
		return err
	}

	switch result {
	case model.VerifyAuthorized:
		t.goTo(StateBrowsing)
		t.notice(textAccessGranted)
		return e.renderHome(t, true)
	case model.VerifyExpired:
		t.send(textCodeExpired, nil)
	default:
		t.send(textCodeInvalid, nil)
	}
	return nil
}

// cleanup removes the messages rendered by the previous session. Stored refs may be
// stale, so failures are ignored by the dispatcher.
func (e *Engine) cleanup(t *turn) {
	for _, ref := range t.sess.Tracked {
		t.deleteMessage(ref)
	}
	t.sess.Tracked = nil
	t.sess.Refs = nil
}

// onCommand handles entry-point commands. Every command cancels the flow in progress.
func (e *Engine) onCommand(t *turn) error {
	t.goTo(StateBrowsing)

	switch t.ev.Command {
	case "start":
		e.cleanup(t)
		return e.renderHome(t, true)
	case "cancel":
		t.notice(textCancelled)
		return e.renderStable(t)
	}

	if !t.admin {
		return e.renderHome(t, false)
	}

	switch t.ev.Command {
	case "admin":
		return e.renderAdmin(t)
	case "gencode":
		return e.generateCode(t)
	case "listcodes", "listecodes":
		return e.renderCodes(t)
	case "ban", "unban":
		return e.banCommand(t)
	case "group":
		return e.groupCommand(t)
	default:
		return e.renderAdmin(t)
	}
}

func (e *Engine) generateCode(t *turn) error {
	code, err := e.access.GenerateCode(t.ctx, t.userID())
	if err != nil {
		return err
	}
	text := fmt.Sprintf("🎟️ New access code: <code>%s</code>\nValid until %s",
		code.Code, code.ExpiresAt.Format("2006-01-02 15:04"))
	t.send(text, model.Keyboard{backRow("🔙 Admin panel", tagAdmin)})
	return nil
}

func (e *Engine) banCommand(t *turn) error {
	id, err := strconv.ParseInt(strings.TrimSpace(t.ev.Text), 10, 64)
	if err != nil {
		t.send(fmt.Sprintf("Usage: /%s &lt;user id&gt;", t.ev.Command), nil)
		return nil
	}

	if t.ev.Command == "ban" {
		if err := e.access.Ban(t.ctx, id); err != nil {
			return err
		}
		t.send(fmt.Sprintf("⛔ User %d banned.", id), nil)
		return nil
	}

	if err := e.access.Unban(t.ctx, id); err != nil {
		return err
	}
	t.send(fmt.Sprintf("✅ User %d unbanned.", id), nil)
	return nil
}

func (e *Engine) groupCommand(t *turn) error {
	groups, err := e.groups.List(t.ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("👥 <b>Groups</b>\n")
	if len(groups) == 0 {
		sb.WriteString("\nNo groups.")
	}
	for _, g := range groups {
		ids := make([]string, 0, len(g.Members))
		for _, m := range g.Members {
			ids = append(ids, strconv.FormatInt(m, 10))
		}
		fmt.Fprintf(&sb, "\n<b>%s</b>: %s", html.EscapeString(g.Name), strings.Join(ids, ", "))
	}
	t.send(sb.String(), nil)
	return nil
}

func (e *Engine) onCatalog(t *turn, _ []string) error {
	views, err := e.catalog.VisibleCategories(t.ctx, t.userID())
	if err != nil {
		return err
	}
	title := textChooseCategory
	if len(views) == 0 {
		title = textNoCategories
	}
	categoryPicker(t, title, views, tagCategory, model.Button{Text: "🔙 Back", Data: data(tagHome)})
	return nil
}

func (e *Engine) onCategory(t *turn, args []string) error {
	key, err := t.deref(args, 0)
	if err != nil {
		return err
	}

	views, err := e.catalog.VisibleCategories(t.ctx, t.userID())
	if err != nil {
		return err
	}
	var view *service.CategoryView
	for i := range views {
		if views[i].Key == key {
			view = &views[i]
		}
	}
	if view == nil {
		return model.ErrNotFound
	}

	if err := e.catalog.RecordCategoryView(t.ctx, key); err != nil {
		e.logger.Warn("Engine: failed to record category view", "category", key, "error", err.Error())
	}

	back := backRow("🔙 Back to categories", tagCatalog)
	title := fmt.Sprintf("📋 <b>%s</b>", html.EscapeString(view.DisplayName))
	if view.SoldOut {
		t.screen(fmt.Sprintf("%s\n\n%s\n%s", title, model.SoldOutMarker, model.SoldOutDescription), model.Keyboard{back})
		return nil
	}

	products, err := e.catalog.VisibleProducts(t.ctx, key, t.userID())
	if err != nil {
		return err
	}
	cref := t.ref(key)
	kb := model.Keyboard{}
	for _, p := range products {
		kb = append(kb, backRow(p.DisplayName, tagProduct, cref, t.ref(p.Name)))
	}
	if len(products) == 0 {
		kb = append(kb, backRow(textNoProducts, tagNoop))
	}
	kb = append(kb, back)
	t.screen(title, kb)
	return nil
}

func (e *Engine) product(t *turn, args []string) (string, model.Product, error) {
	key, err := t.deref(args, 0)
	if err != nil {
		return "", model.Product{}, err
	}
	name, err := t.deref(args, 1)
	if err != nil {
		return "", model.Product{}, err
	}
	p, err := e.catalog.Product(t.ctx, key, name, t.userID())
	if err != nil {
		return "", model.Product{}, err
	}
	return key, p, nil
}

func (e *Engine) onProduct(t *turn, args []string) error {
	key, p, err := e.product(t, args)
	if err != nil {
		return err
	}
	if err := e.catalog.RecordProductView(t.ctx, key, p.Name); err != nil {
		e.logger.Warn("Engine: failed to record product view", "category", key, "product", p.Name, "error", err.Error())
	}
	return e.renderCard(t, key, p, true)
}

// onMedia shows one media file of a product with carousel navigation.
// Navigating from a media message replaces it.
func (e *Engine) onMedia(t *turn, args []string) error {
	key, p, err := e.product(t, args)
	if err != nil {
		return err
	}
	media := p.SortedMedia()
	i := 0
	if len(args) > 2 {
		i, err = strconv.Atoi(args[2])
		if err != nil {
			return model.ErrNotFound
		}
	}
	if i < 0 || i >= len(media) {
		return model.ErrNotFound
	}

	if tag, _ := parseData(t.ev.Data); tag == tagMediaNav {
		t.deleteMessage(t.pressed())
	}

	cref, pref := t.ref(key), t.ref(p.Name)
	var nav []model.Button
	if i > 0 {
		nav = append(nav, model.Button{Text: "⬅️ Previous", Data: data(tagMediaNav, cref, pref, strconv.Itoa(i-1))})
	}
	if i < len(media)-1 {
		nav = append(nav, model.Button{Text: "➡️ Next", Data: data(tagMediaNav, cref, pref, strconv.Itoa(i+1))})
	}
	kb := model.Keyboard{}
	if len(nav) > 0 {
		kb = append(kb, nav)
	}
	kb = append(kb, backRow("🔙 Back to the product", tagMediaBack, cref, pref))

	caption := fmt.Sprintf("%s (%d/%d)", html.EscapeString(model.StripOwner(p.Name, p.OwnerGroup)), i+1, len(media))
	t.media(media[i].Kind, media[i].MediaID, caption, kb)
	return nil
}

func (e *Engine) onMediaBack(t *turn, args []string) error {
	key, p, err := e.product(t, args)
	if err != nil {
		return err
	}
	t.deleteMessage(t.pressed())
	return e.renderCard(t, key, p, false)
}

func (e *Engine) onOrder(t *turn, _ []string) error {
	cfg, err := e.settings.Home(t.ctx)
	if err != nil {
		return err
	}
	if cfg.OrderButton == nil {
		t.alert(textNoOrderButton)
		return nil
	}
	t.alert(cfg.OrderButton.Value)
	return nil
}

func (e *Engine) onInfo(t *turn, args []string) error {
	id, err := t.deref(args, 0)
	if err != nil {
		return err
	}
	b, err := e.settings.Button(t.ctx, id)
	if err != nil {
		return err
	}
	t.screen(b.Value, model.Keyboard{backRow("🔙 Back", tagHome)})
	return nil
}
