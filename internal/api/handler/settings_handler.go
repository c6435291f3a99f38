package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type settingsCard struct {
	Title       string
	Description string
}

var settingsCards = []settingsCard{
	{Title: "معلومات العيادة", Description: "تحديث بيانات العيادة الأساسية"},
	{Title: "الإشعارات", Description: "إدارة إعدادات الإشعارات"},
	{Title: "النسخ الاحتياطي", Description: "إدارة النسخ الاحتياطية للبيانات"},
	{Title: "الأمان", Description: "إعدادات الأمان والخصوصية"},
}

// Settings renders the static settings page.
func Settings(c echo.Context) error {
	data := struct{ Cards []settingsCard }{Cards: settingsCards}
	return render(c, http.StatusOK, "settings", newPage(c, "الإعدادات", "/settings", data))
}
