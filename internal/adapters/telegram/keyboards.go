package telegram

import (
	tele "gopkg.in/telebot.v3"
)

// keyboards holds every inline markup the bot uses. Buttons sharing a
// unique are handled by the same callback regardless of which markup
// they appear on.
type keyboards struct {
	main     *tele.ReplyMarkup
	cancel   *tele.ReplyMarkup
	result   *tele.ReplyMarkup
	tryAgain *tele.ReplyMarkup
	idMenu   *tele.ReplyMarkup
	idBack   *tele.ReplyMarkup
	idReply  *tele.ReplyMarkup

	btnCookie    tele.Btn
	btnIDMenu    tele.Btn
	btnCancel    tele.Btn
	btnUpload    tele.Btn
	btnRetry     tele.Btn
	btnMyID      tele.Btn
	btnGetID     tele.Btn
	btnBack      tele.Btn
	btnHome      tele.Btn
	btnIDBack    tele.Btn
	btnAnotherID tele.Btn
}

func newKeyboards() *keyboards {
	kb := &keyboards{
		main:     &tele.ReplyMarkup{},
		cancel:   &tele.ReplyMarkup{},
		result:   &tele.ReplyMarkup{},
		tryAgain: &tele.ReplyMarkup{},
		idMenu:   &tele.ReplyMarkup{},
		idBack:   &tele.ReplyMarkup{},
		idReply:  &tele.ReplyMarkup{},
	}

	kb.btnCookie = kb.main.Data("🍪 Cookie Cleaner", "cookie_cleaner")
	kb.btnIDMenu = kb.main.Data("🆔 ID", "id_menu")
	kb.main.Inline(kb.main.Row(kb.btnCookie), kb.main.Row(kb.btnIDMenu))

	kb.btnCancel = kb.cancel.Data("❌ Cancel", "cancel")
	kb.cancel.Inline(kb.cancel.Row(kb.btnCancel))

	kb.btnUpload = kb.result.Data("🔄 Upload Another", "upload_another")
	kb.result.Inline(kb.result.Row(kb.btnUpload), kb.result.Row(kb.btnCancel))

	kb.btnRetry = kb.tryAgain.Data("🔄 Try Again", "upload_another")
	kb.tryAgain.Inline(kb.tryAgain.Row(kb.btnRetry), kb.tryAgain.Row(kb.btnCancel))

	kb.btnMyID = kb.idMenu.Data("👤 Get my ID", "get_my_id")
	kb.btnGetID = kb.idMenu.Data("🔍 Get ID", "get_id")
	kb.btnBack = kb.idMenu.Data("🔙 Back", "back_to_main")
	kb.idMenu.Inline(kb.idMenu.Row(kb.btnMyID), kb.idMenu.Row(kb.btnGetID), kb.idMenu.Row(kb.btnBack))

	kb.btnIDBack = kb.idBack.Data("🔙 Back", "back_to_id_menu")
	kb.btnHome = kb.idBack.Data("🏠 Main Menu", "back_to_main")
	kb.idBack.Inline(kb.idBack.Row(kb.btnIDBack), kb.idBack.Row(kb.btnHome))

	kb.btnAnotherID = kb.idReply.Data("🔍 Get Another ID", "get_id")
	kb.idReply.Inline(kb.idReply.Row(kb.btnAnotherID), kb.idReply.Row(kb.btnIDBack), kb.idReply.Row(kb.btnHome))

	return kb
}
