package bot

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/dtroode/catalog-bot/internal/model"
	"github.com/dtroode/catalog-bot/internal/service"
)

func backRow(text, tag string, args ...string) []model.Button {
	return []model.Button{{Text: text, Data: data(tag, args...)}}
}

// renderHome shows the home menu. On session start the banner and the menu are sent
// as new messages; otherwise the menu replaces the pressed message.
func (e *Engine) renderHome(t *turn, start bool) error {
	cfg, err := e.settings.Home(t.ctx)
	if err != nil {
		return err
	}

	text := cfg.WelcomeMessage
	if text == "" {
		text = textDefaultWelcome
	}

	kb := model.Keyboard{backRow("📋 MENU", tagCatalog)}
	for _, b := range cfg.CustomButtons {
		if b.Kind == model.ButtonURL {
			kb = append(kb, []model.Button{{Text: b.Name, URL: b.Value}})
			continue
		}
		kb = append(kb, []model.Button{{Text: b.Name, Data: data(tagInfo, t.ref(b.ID))}})
	}
	if cfg.Contact != nil {
		kb = append(kb, []model.Button{{Text: "📞 Contact", URL: cfg.Contact.Link()}})
	}
	if t.admin {
		kb = append(kb, backRow("🔧 Admin", tagAdmin))
	}

	if start {
		if cfg.BannerImage != "" {
			t.media(model.MediaPhoto, cfg.BannerImage, "", nil)
		}
		t.send(text, kb)
		return nil
	}
	t.screen(text, kb)
	return nil
}

func (e *Engine) renderAdmin(t *turn) error {
	required, err := e.access.CodeRequired(t.ctx)
	if err != nil {
		return err
	}
	status := "OFF"
	if required {
		status = "ON"
	}

	action := func(text, name string) model.Button {
		return model.Button{Text: text, Data: data(tagAdminAction, name)}
	}
	kb := model.Keyboard{
		{action("➕ Add category", "addcat"), action("➕ Add product", "addprod")},
		{action("❌ Delete category", "delcat"), action("❌ Delete product", "delprod")},
		{action("✏️ Edit category", "editcat"), action("✏️ Edit product", "editprod")},
		{action("👥 Groups", "groups"), action("🎯 Home buttons", "buttons")},
		{action("🔒 Access code: "+status, "toggle"), action("🎟️ Codes", "codes")},
		{action("📊 Statistics", "stats"), action("📢 Broadcast", "broadcast")},
		{action("🏠 Welcome message", "welcome"), action("🖼️ Banner", "banner")},
		{action("🛒 Order button", "order"), action("📞 Contact", "contact")},
		backRow("🔙 Back to home", tagHome),
	}
	t.screen("🔧 <b>Admin panel</b>", kb)
	return nil
}

func categoryLabel(v service.CategoryView) string {
	if v.SoldOut {
		return v.DisplayName + " (SOLD OUT)"
	}
	return v.DisplayName
}

// categoryPicker lists categories as buttons carrying tag.
func categoryPicker(t *turn, title string, views []service.CategoryView, tag string, back model.Button) {
	kb := model.Keyboard{}
	for _, v := range views {
		kb = append(kb, []model.Button{{Text: categoryLabel(v), Data: data(tag, t.ref(v.Key))}})
	}
	kb = append(kb, []model.Button{back})
	t.screen(title, kb)
}

func productCaption(p model.Product) string {
	return fmt.Sprintf("<b>%s</b>\n\n💰 %s\n\n📝 %s",
		html.EscapeString(model.StripOwner(p.Name, p.OwnerGroup)), p.Price, p.Description)
}

// renderCard shows a product card. edit replaces the pressed message.
func (e *Engine) renderCard(t *turn, key string, p model.Product, edit bool) error {
	cfg, err := e.settings.Home(t.ctx)
	if err != nil {
		return err
	}

	cref, pref := t.ref(key), t.ref(p.Name)
	kb := model.Keyboard{}
	if n := len(p.Media); n > 0 {
		kb = append(kb, backRow(fmt.Sprintf("📸 Media (%d)", n), tagMedia, cref, pref, "0"))
	}
	if cfg.OrderButton != nil {
		if cfg.OrderButton.Kind == model.ButtonURL {
			kb = append(kb, []model.Button{{Text: "🛒 Order", URL: cfg.OrderButton.Value}})
		} else {
			kb = append(kb, backRow("🛒 Order", tagOrder))
		}
	}
	kb = append(kb, backRow("🔙 Back to the category", tagCategory, cref))

	if edit {
		t.screen(productCaption(p), kb)
	} else {
		t.send(productCaption(p), kb)
	}
	return nil
}

func (e *Engine) renderCodes(t *turn) error {
	codes, err := e.access.ListActive(t.ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("🎟️ <b>Active codes</b>\n")
	if len(codes) == 0 {
		sb.WriteString("\nNo active codes.")
	}
	for _, c := range codes {
		fmt.Fprintf(&sb, "\n<code>%s</code> expires %s", c.Code, c.ExpiresAt.Format("2006-01-02 15:04"))
	}

	kb := model.Keyboard{
		{{Text: "➕ Generate a code", Data: data(tagAdminAction, "gencode")}},
		backRow("🔙 Back", tagAdmin),
	}
	t.screen(sb.String(), kb)
	return nil
}

func (e *Engine) renderStats(t *turn) error {
	if _, err := e.catalog.PruneStats(t.ctx); err != nil {
		e.logger.Warn("Engine: failed to prune stats", "error", err.Error())
	}
	report, err := e.catalog.StatsReport(t.ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 <b>Statistics</b>\n\nTotal views: %d\n", report.TotalViews)
	if report.LastReset != "" {
		fmt.Fprintf(&sb, "Last reset: %s\n", report.LastReset)
	}
	if len(report.Categories) > 0 {
		sb.WriteString("\n<b>Categories</b>\n")
		for _, c := range report.Categories {
			fmt.Fprintf(&sb, "• %s: %d\n", html.EscapeString(c.Category), c.Views)
		}
	}
	if len(report.Products) > 0 {
		sb.WriteString("\n<b>Top products</b>\n")
		for _, p := range report.Products {
			fmt.Fprintf(&sb, "• %s / %s: %d\n", html.EscapeString(p.Category), html.EscapeString(p.Product), p.Views)
		}
	}

	kb := model.Keyboard{
		{{Text: "🔄 Reset statistics", Data: data(tagAdminAction, "resetstats")}},
		backRow("🔙 Back", tagAdmin),
	}
	t.screen(sb.String(), kb)
	return nil
}

func (e *Engine) renderGroups(t *turn) error {
	groups, err := e.groups.List(t.ctx)
	if err != nil {
		return err
	}

	kb := model.Keyboard{}
	for _, g := range groups {
		kb = append(kb, backRow(fmt.Sprintf("👥 %s (%d)", g.Name, len(g.Members)), tagGroup, t.ref(g.Name)))
	}
	kb = append(kb,
		[]model.Button{{Text: "➕ New group", Data: data(tagAdminAction, "newgroup")}},
		backRow("🔙 Back", tagAdmin),
	)
	t.screen("👥 <b>Groups</b>", kb)
	return nil
}

func (e *Engine) renderGroup(t *turn, name string) error {
	groups, err := e.groups.List(t.ctx)
	if err != nil {
		return err
	}
	var group *model.Group
	for i := range groups {
		if groups[i].Name == name {
			group = &groups[i]
		}
	}
	if group == nil {
		return model.ErrNotFound
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 <b>%s</b>\n\nMembers:", html.EscapeString(group.Name))
	if len(group.Members) == 0 {
		sb.WriteString(" none")
	}
	for _, m := range group.Members {
		sb.WriteString("\n• " + strconv.FormatInt(m, 10))
	}

	gref := t.ref(group.Name)
	kb := model.Keyboard{
		{
			{Text: "➕ Add member", Data: data(tagGroupAction, gref, "add")},
			{Text: "➖ Remove member", Data: data(tagGroupAction, gref, "remove")},
		},
		backRow("🗑️ Delete group", tagGroupAction, gref, "delete"),
		backRow("🔙 Back", tagAdminAction, "groups"),
	}
	t.screen(sb.String(), kb)
	return nil
}

func (e *Engine) renderButtons(t *turn) error {
	cfg, err := e.settings.Home(t.ctx)
	if err != nil {
		return err
	}

	kb := model.Keyboard{}
	for _, b := range cfg.CustomButtons {
		kb = append(kb, backRow(b.Name, tagButton, t.ref(b.ID)))
	}
	kb = append(kb,
		[]model.Button{{Text: "➕ Add a button", Data: data(tagAdminAction, "newbutton")}},
		backRow("🔙 Back", tagAdmin),
	)
	t.screen("🎯 <b>Home buttons</b>", kb)
	return nil
}

func (e *Engine) renderButton(t *turn, id string) error {
	b, err := e.settings.Button(t.ctx, id)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("🎯 <b>%s</b>\n\nType: %s\nValue: %s", html.EscapeString(b.Name), b.Kind, html.EscapeString(b.Value))
	bref := t.ref(b.ID)
	kb := model.Keyboard{
		backRow("✏️ Change label", tagButtonAction, bref, "name"),
		backRow("🔗 Change value", tagButtonAction, bref, "value"),
		backRow("🗑️ Delete", tagButtonAction, bref, "delete"),
		backRow("🔙 Back", tagAdminAction, "buttons"),
	}
	t.screen(text, kb)
	return nil
}

// confirm asks for confirmation of the pending flow.
func confirm(t *turn, question string) {
	t.sess.State = StateConfirm
	kb := model.Keyboard{{
		{Text: "✅ Yes", Data: data(tagConfirm)},
		{Text: "❌ No, cancel", Data: data(tagCancel)},
	}}
	t.screen(question, kb)
}
