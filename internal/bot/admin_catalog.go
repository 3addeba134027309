package bot

import (
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/dtroode/catalog-bot/internal/model"
	"github.com/dtroode/catalog-bot/internal/service"
)

func (e *Engine) buildAdminActions() map[string]func(t *turn) error {
	return map[string]func(t *turn) error{
		"addcat":     e.startCreateCategory,
		"addprod":    e.pickCategory(flowAddProduct, "➕ Add a product to which category?"),
		"delcat":     e.pickCategory(flowDeleteCategory, "❌ Which category do you want to delete?"),
		"editcat":    e.pickCategory(flowEditCategory, "✏️ Which category do you want to edit?"),
		"delprod":    e.pickCategory(flowDeleteProduct, "❌ Delete a product from which category?"),
		"editprod":   e.pickCategory(flowEditProduct, "✏️ Edit a product from which category?"),
		"codes":      e.renderCodes,
		"gencode":    e.generateCode,
		"toggle":     e.toggleAccess,
		"stats":      e.renderStats,
		"resetstats": e.startResetStats,
		"groups":     e.renderGroups,
		"newgroup":   e.startAwait(flowCreateGroup, StateAwaitGroupName),
		"buttons":    e.renderButtons,
		"newbutton":  e.startAwait(flowAddButton, StateAwaitButtonName),
		"welcome":    e.startAwait("", StateAwaitWelcome),
		"banner":     e.startAwait("", StateAwaitBanner),
		"order":      e.startAwait("", StateAwaitOrderButton),
		"contact":    e.startAwait("", StateAwaitContact),
		"broadcast":  e.startAwait(flowBroadcast, StateAwaitBroadcast),
	}
}

func (e *Engine) onAdminAction(t *turn, args []string) error {
	if len(args) == 0 {
		return e.renderAdmin(t)
	}
	action, ok := e.admin[args[0]]
	if !ok {
		return e.renderAdmin(t)
	}
	return action(t)
}

func (e *Engine) startAwait(kind model.PendingKind, state model.State) func(t *turn) error {
	return func(t *turn) error {
		t.goTo(state)
		t.sess.Pending.Kind = kind
		t.prompt()
		return nil
	}
}

// adminDone finishes a flow with a confirmation and the admin menu.
func (e *Engine) adminDone(t *turn, text string) error {
	t.goTo(StateBrowsing)
	t.notice(text)
	return e.renderAdmin(t)
}

// startCreateCategory inserts a group selection step when the admin belongs to
// several groups.
func (e *Engine) startCreateCategory(t *turn) error {
	groups, err := e.groups.GroupsOf(t.ctx, t.userID())
	if err != nil {
		return err
	}

	t.goTo(StateBrowsing)
	t.sess.Pending.Kind = flowCreateCategory
	switch len(groups) {
	case 0:
		t.await(StateAwaitCategoryName)
	case 1:
		t.sess.Pending.Group = groups[0]
		t.await(StateAwaitCategoryName)
	default:
		t.sess.State = StateAwaitCategoryGroup
		kb := model.Keyboard{}
		for _, g := range groups {
			kb = append(kb, backRow("👥 "+g, tagPickGroup, t.ref(g)))
		}
		kb = append(kb, backRow("🔙 Cancel", tagCancel))
		t.screen(prompts[StateAwaitCategoryGroup], kb)
	}
	return nil
}

func (e *Engine) onPickGroup(t *turn, args []string) error {
	group, err := t.deref(args, 0)
	if err != nil {
		return err
	}
	member, err := e.groups.IsMember(t.ctx, t.userID(), group)
	if err != nil {
		return err
	}
	if !member {
		return model.ErrForbidden
	}
	t.sess.Pending.Group = group
	t.await(StateAwaitCategoryName)
	return nil
}

func (e *Engine) onCategoryName(t *turn) error {
	name := model.ScopedName{Group: t.sess.Pending.Group, Local: t.ev.Text}
	category, err := e.catalog.CreateCategory(t.ctx, t.userID(), name)
	if err != nil {
		return err
	}
	return e.adminDone(t, fmt.Sprintf("✅ Category %s created.", html.EscapeString(category.DisplayName())))
}

// pickCategory starts a flow by listing the categories the admin manages.
func (e *Engine) pickCategory(kind model.PendingKind, title string) func(t *turn) error {
	return func(t *turn) error {
		views, err := e.catalog.ManageableCategories(t.ctx, t.userID())
		if err != nil {
			return err
		}
		if len(views) == 0 {
			return e.adminDone(t, textNoCategories)
		}
		t.goTo(StateSelectCategory)
		t.sess.Pending.Kind = kind
		categoryPicker(t, title, views, tagSelect, model.Button{Text: "🔙 Cancel", Data: data(tagCancel)})
		return nil
	}
}

// manageable returns the category if the admin may manage it.
func (e *Engine) manageable(t *turn, key string) (service.CategoryView, model.Category, error) {
	views, err := e.catalog.ManageableCategories(t.ctx, t.userID())
	if err != nil {
		return service.CategoryView{}, model.Category{}, err
	}
	i := slices.IndexFunc(views, func(v service.CategoryView) bool { return v.Key == key })
	if i < 0 {
		return service.CategoryView{}, model.Category{}, model.ErrForbidden
	}
	cat, err := e.catalog.Get(t.ctx)
	if err != nil {
		return service.CategoryView{}, model.Category{}, err
	}
	j := cat.Category(key)
	if j < 0 {
		return service.CategoryView{}, model.Category{}, model.ErrNotFound
	}
	return views[i], cat.Categories[j], nil
}

func (e *Engine) onSelectCategory(t *turn, args []string) error {
	key, err := t.deref(args, 0)
	if err != nil {
		return err
	}
	view, category, err := e.manageable(t, key)
	if err != nil {
		return err
	}
	t.sess.Pending.Category = key
	name := html.EscapeString(view.DisplayName)

	switch t.sess.Pending.Kind {
	case flowAddProduct:
		owner, err := e.productOwner(t, category)
		if err != nil {
			return err
		}
		t.sess.Pending.Draft = model.ProductDraft{OwnerGroup: owner}
		t.await(StateAwaitProductName)
	case flowDeleteCategory:
		confirm(t, fmt.Sprintf("❌ Delete category <b>%s</b> and all its products?", name))
	case flowEditCategory:
		t.sess.State = StateSelectAction
		kb := model.Keyboard{
			backRow("✏️ Rename", tagAction, "rename"),
			backRow("➕ Mark SOLD OUT", tagAction, "soldout"),
			backRow("🔙 Cancel", tagCancel),
		}
		t.screen(fmt.Sprintf("✏️ <b>%s</b>", name), kb)
	case flowDeleteProduct, flowEditProduct:
		if category.IsSoldOut() {
			return model.ErrSoldOut
		}
		products, err := e.catalog.ManageableProducts(t.ctx, key, t.userID())
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return e.adminDone(t, "❌ This category has no products.")
		}
		t.sess.State = StateSelectProduct
		kb := model.Keyboard{}
		for _, p := range products {
			kb = append(kb, backRow(p.DisplayName, tagSelect, t.ref(p.Name)))
		}
		kb = append(kb, backRow("🔙 Cancel", tagCancel))
		t.screen(fmt.Sprintf("📦 Products of <b>%s</b>:", name), kb)
	default:
		return e.fallback(t)
	}
	return nil
}

// productOwner is the owner of a new product: the category's group, or the admin's
// first group when a group member adds to a public category.
func (e *Engine) productOwner(t *turn, category model.Category) (string, error) {
	if category.OwnerGroup != "" {
		return category.OwnerGroup, nil
	}
	groups, err := e.groups.GroupsOf(t.ctx, t.userID())
	if err != nil || len(groups) == 0 {
		return "", err
	}
	return groups[0], nil
}

func (e *Engine) onCategoryAction(t *turn, args []string) error {
	if len(args) == 0 {
		return e.fallback(t)
	}
	switch args[0] {
	case "rename":
		t.await(StateAwaitNewCategoryName)
	case "soldout":
		t.sess.Pending.Kind = flowSoldOut
		confirm(t, "⚠️ Mark this category SOLD OUT? All its products will be removed.")
	default:
		return e.fallback(t)
	}
	return nil
}

func (e *Engine) onNewCategoryName(t *turn) error {
	_, category, err := e.manageable(t, t.sess.Pending.Category)
	if err != nil {
		return err
	}
	newKey, err := e.catalog.RenameCategory(t.ctx, category.Key, t.ev.Text, t.userID())
	if err != nil {
		return err
	}
	display := model.StripOwner(newKey, category.OwnerGroup)
	return e.adminDone(t, fmt.Sprintf("✅ Category renamed to %s.", html.EscapeString(display)))
}

func (e *Engine) onSelectProduct(t *turn, args []string) error {
	name, err := t.deref(args, 0)
	if err != nil {
		return err
	}
	products, err := e.catalog.ManageableProducts(t.ctx, t.sess.Pending.Category, t.userID())
	if err != nil {
		return err
	}
	i := slices.IndexFunc(products, func(p service.ProductView) bool { return p.Name == name })
	if i < 0 {
		return model.ErrNotFound
	}
	t.sess.Pending.Product = name
	display := html.EscapeString(products[i].DisplayName)

	switch t.sess.Pending.Kind {
	case flowDeleteProduct:
		confirm(t, fmt.Sprintf("❌ Delete product <b>%s</b>?", display))
	case flowEditProduct:
		t.sess.State = StateSelectField
		kb := model.Keyboard{
			backRow("📝 Name", tagField, string(model.FieldName)),
			backRow("💰 Price", tagField, string(model.FieldPrice)),
			backRow("📝 Description", tagField, string(model.FieldDescription)),
			backRow("📸 Media", tagField, string(model.FieldMedia)),
			backRow("🔙 Cancel", tagCancel),
		}
		t.screen(fmt.Sprintf("✏️ What do you want to change in <b>%s</b>?", display), kb)
	default:
		return e.fallback(t)
	}
	return nil
}

func (e *Engine) onSelectField(t *turn, args []string) error {
	if len(args) == 0 || !model.ProductField(args[0]).Valid() {
		return e.fallback(t)
	}
	t.sess.Pending.Field = model.ProductField(args[0])
	t.sess.Pending.Draft.Media = nil
	t.await(StateAwaitFieldValue)
	return nil
}

func (e *Engine) editField(t *turn, edit model.ProductEdit) error {
	p := t.sess.Pending
	_, err := e.catalog.EditProductField(t.ctx, p.Category, p.Product, t.userID(), edit)
	if err != nil {
		return err
	}
	return e.adminDone(t, "✅ Product updated.")
}

func (e *Engine) onFieldValue(t *turn) error {
	if t.sess.Pending.Field == model.FieldMedia {
		t.prompt()
		return nil
	}
	return e.editField(t, model.ProductEdit{Field: t.sess.Pending.Field, Text: t.ev.Text})
}

func (e *Engine) onFieldMedia(t *turn) error {
	if t.sess.Pending.Field != model.FieldMedia {
		t.prompt()
		return nil
	}
	e.collectMedia(t)
	return nil
}

func (e *Engine) onFieldMediaDone(t *turn) error {
	if t.sess.Pending.Field != model.FieldMedia {
		return e.fallback(t)
	}
	return e.editField(t, model.ProductEdit{Field: model.FieldMedia, Media: t.sess.Pending.Draft.Media})
}

// collectMedia appends the received media to the draft in arrival order.
func (e *Engine) collectMedia(t *turn) {
	kind := model.MediaPhoto
	if t.ev.Kind == model.EventVideo {
		kind = model.MediaVideo
	}
	draft := &t.sess.Pending.Draft
	draft.Media = append(draft.Media, model.MediaRef{MediaID: t.ev.MediaID, Kind: kind, OrderIndex: len(draft.Media)})

	kb := model.Keyboard{
		backRow("✅ Finish", tagMediaDone),
		backRow("🔙 Cancel", tagCancel),
	}
	t.send(fmt.Sprintf("📸 Media %d received. Send more or press Finish.", len(draft.Media)), kb)
}

func (e *Engine) onProductName(t *turn) error {
	draft := &t.sess.Pending.Draft
	local := strings.TrimSpace(model.StripOwner(strings.TrimSpace(t.ev.Text), draft.OwnerGroup))
	if local == "" || local == model.SoldOutMarker {
		return model.ErrInvalidName
	}
	name := model.ScopedName{Group: draft.OwnerGroup, Local: local}.Key()

	cat, err := e.catalog.Get(t.ctx)
	if err != nil {
		return err
	}
	i := cat.Category(t.sess.Pending.Category)
	if i < 0 {
		return model.ErrNotFound
	}
	if cat.Categories[i].Product(name) >= 0 {
		return model.ErrConflict
	}

	draft.Name = name
	t.await(StateAwaitProductPrice)
	return nil
}

func (e *Engine) onProductPrice(t *turn) error {
	if strings.TrimSpace(t.ev.Text) == "" {
		return model.ErrInvalidValue
	}
	t.sess.Pending.Draft.Price = t.ev.Text
	t.await(StateAwaitProductDescription)
	return nil
}

func (e *Engine) onProductDescription(t *turn) error {
	if strings.TrimSpace(t.ev.Text) == "" {
		return model.ErrInvalidValue
	}
	t.sess.Pending.Draft.Description = t.ev.Text
	t.await(StateAwaitProductMedia)
	return nil
}

func (e *Engine) onProductMedia(t *turn) error {
	e.collectMedia(t)
	return nil
}

func (e *Engine) onProductMediaDone(t *turn) error {
	draft := t.sess.Pending.Draft
	product := model.Product{
		Name:        draft.Name,
		OwnerGroup:  draft.OwnerGroup,
		Price:       draft.Price,
		Description: draft.Description,
		Media:       draft.Media,
	}

	if err := e.catalog.AddProduct(t.ctx, t.sess.Pending.Category, product); err != nil {
		if errors.Is(err, model.ErrConflict) || errors.Is(err, model.ErrInvalidName) {
			t.sess.State = StateAwaitProductName
		}
		return err
	}
	return e.adminDone(t, fmt.Sprintf("✅ Product %s added.", html.EscapeString(model.StripOwner(product.Name, product.OwnerGroup))))
}

func (e *Engine) startResetStats(t *turn) error {
	t.goTo(StateBrowsing)
	t.sess.Pending.Kind = flowResetStats
	confirm(t, "🔄 Reset all statistics?")
	return nil
}

// onConfirm runs the confirmed destructive action of the pending flow.
func (e *Engine) onConfirm(t *turn, _ []string) error {
	p := t.sess.Pending
	uid := t.userID()

	var err error
	var done string
	switch p.Kind {
	case flowDeleteCategory:
		done = "✅ Category deleted."
		err = e.catalog.DeleteCategory(t.ctx, p.Category, uid)
	case flowSoldOut:
		done = "✅ Category marked SOLD OUT."
		err = e.catalog.SetSoldOut(t.ctx, p.Category, uid)
	case flowDeleteProduct:
		done = "✅ Product deleted."
		err = e.catalog.DeleteProduct(t.ctx, p.Category, p.Product, uid)
	case flowResetStats:
		done = "✅ Statistics reset."
		err = e.catalog.ResetStats(t.ctx, uid)
	case flowDeleteGroup:
		done = "✅ Group deleted."
		err = e.groups.Delete(t.ctx, p.Group)
	case flowDeleteButton:
		done = "✅ Button deleted."
		err = e.settings.DeleteButton(t.ctx, p.ButtonID)
	default:
		return e.fallback(t)
	}
	if err != nil {
		return err
	}
	return e.adminDone(t, done)
}
