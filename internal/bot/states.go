package bot

import "github.com/dtroode/catalog-bot/internal/model"

// Conversation states.
const (
	StateUnauthenticated model.State = "unauthenticated"
	StateBrowsing        model.State = "browsing"

	StateSelectCategory model.State = "select_category"
	StateSelectProduct  model.State = "select_product"
	StateSelectField    model.State = "select_field"
	StateSelectAction   model.State = "select_action"
	StateConfirm        model.State = "confirm"

	StateAwaitCategoryGroup      model.State = "await_category_group"
	StateAwaitCategoryName       model.State = "await_category_name"
	StateAwaitNewCategoryName    model.State = "await_new_category_name"
	StateAwaitProductName        model.State = "await_product_name"
	StateAwaitProductPrice       model.State = "await_product_price"
	StateAwaitProductDescription model.State = "await_product_description"
	StateAwaitProductMedia       model.State = "await_product_media"
	StateAwaitFieldValue         model.State = "await_field_value"
	StateAwaitButtonName         model.State = "await_button_name"
	StateAwaitButtonValue        model.State = "await_button_value"
	StateAwaitContact            model.State = "await_contact"
	StateAwaitWelcome            model.State = "await_welcome"
	StateAwaitOrderButton        model.State = "await_order_button"
	StateAwaitBanner             model.State = "await_banner"
	StateAwaitGroupName          model.State = "await_group_name"
	StateAwaitMemberID           model.State = "await_member_id"
	StateAwaitBroadcast          model.State = "await_broadcast"
)

// Flows that carry scratch state between turns.
const (
	flowCreateCategory model.PendingKind = "create_category"
	flowAddProduct     model.PendingKind = "add_product"
	flowDeleteCategory model.PendingKind = "delete_category"
	flowEditCategory   model.PendingKind = "edit_category"
	flowSoldOut        model.PendingKind = "sold_out"
	flowDeleteProduct  model.PendingKind = "delete_product"
	flowEditProduct    model.PendingKind = "edit_product"
	flowResetStats     model.PendingKind = "reset_stats"
	flowCreateGroup    model.PendingKind = "create_group"
	flowDeleteGroup    model.PendingKind = "delete_group"
	flowAddMember      model.PendingKind = "add_member"
	flowRemoveMember   model.PendingKind = "remove_member"
	flowAddButton      model.PendingKind = "add_button"
	flowRenameButton   model.PendingKind = "rename_button"
	flowButtonValue    model.PendingKind = "button_value"
	flowDeleteButton   model.PendingKind = "delete_button"
	flowBroadcast      model.PendingKind = "broadcast"
)

var prompts = map[model.State]string{
	StateSelectCategory:          "👆 Choose a category from the list above.",
	StateSelectProduct:           "👆 Choose a product from the list above.",
	StateSelectField:             "👆 Choose the field to edit.",
	StateSelectAction:            "👆 Choose an action from the list above.",
	StateConfirm:                 "👆 Confirm or cancel the pending action.",
	StateAwaitCategoryGroup:      "👥 Choose the group the new category belongs to:",
	StateAwaitCategoryName:       "📝 Send the name of the new category:",
	StateAwaitNewCategoryName:    "📝 Send the new name of the category:",
	StateAwaitProductName:        "📝 Send the product name:",
	StateAwaitProductPrice:       "💰 Send the product price:",
	StateAwaitProductDescription: "📝 Send the product description:",
	StateAwaitProductMedia:       "📸 Send photos or videos of the product, then press Finish.",
	StateAwaitFieldValue:         "✏️ Send the new value:",
	StateAwaitButtonName:         "📝 Send the button label:",
	StateAwaitButtonValue:        "🔗 Send the button target: a link or a text to display.",
	StateAwaitContact:            "📞 Send a link or a Telegram username (@name):",
	StateAwaitWelcome:            "🏠 Send the new welcome message:",
	StateAwaitOrderButton:        "🛒 Send a link, a Telegram username or a text for the order button:",
	StateAwaitBanner:             "🖼️ Send the banner photo:",
	StateAwaitGroupName:          "👥 Send the name of the new group:",
	StateAwaitMemberID:           "🆔 Send the numeric user id:",
	StateAwaitBroadcast:          "📢 Send the message to broadcast (text, photo or video):",
}
