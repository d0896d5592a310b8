package unified

import (
	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/config"
)

// labels is the static interface text for one language. Messages produced
// by the state layer (toasts, errors) are not translated.
type labels struct {
	// tabs and screen titles
	Home, Cart, Profile, Manager, Admin string
	Settings, Notifications, EditProfile string

	// auth
	Login, Register, Email, Password, Name string
	SwitchToRegister, SwitchToLogin         string

	// home
	Search, Genre, AllGenres, NoResults, Page, InStock, OutOfStock string

	// cart
	CartEmpty, Total, Items string

	// profile
	RoleLabel, Logout string

	// settings
	Appearance, Theme, Language, ThemeLight, ThemeDark string

	// notifications
	InDevelopment, NotificationsBody, ComingSoon string
	Features                                     []string

	// common
	Back, Quit, Working, Offline string

	roles map[access.Role]string
}

var catalogLabels = map[string]labels{
	config.LanguageEN: {
		Home: "Home", Cart: "Cart", Profile: "Profile", Manager: "Manager", Admin: "Admin",
		Settings: "Settings", Notifications: "Notifications", EditProfile: "Edit profile",

		Login: "Log in", Register: "Register", Email: "Email", Password: "Password", Name: "Name",
		SwitchToRegister: "no account? register", SwitchToLogin: "have an account? log in",

		Search: "Search", Genre: "Genre", AllGenres: "All", NoResults: "No books found",
		Page: "Page", InStock: "in stock", OutOfStock: "out of stock",

		CartEmpty: "Your cart is empty", Total: "Total", Items: "items",

		RoleLabel: "Role", Logout: "log out",

		Appearance: "Appearance", Theme: "Theme", Language: "Interface language",
		ThemeLight: "Light", ThemeDark: "Dark",

		InDevelopment:     "In Development",
		NotificationsBody: "The notifications feature is under development and will be available in upcoming updates.",
		ComingSoon:        "Coming soon to the app!",
		Features: []string{
			"New book arrivals notifications",
			"Personal recommendations",
			"Order status updates",
			"Special offers and discounts",
		},

		Back: "back", Quit: "quit", Working: "Working...", Offline: "offline",

		roles: map[access.Role]string{
			access.RoleAdmin:   "Administrator",
			access.RoleManager: "Manager",
			access.RoleUser:    "User",
		},
	},
	config.LanguageRU: {
		Home: "Главная", Cart: "Корзина", Profile: "Профиль", Manager: "Менеджер", Admin: "Админ",
		Settings: "Настройки", Notifications: "Уведомления", EditProfile: "Редактировать профиль",

		Login: "Войти", Register: "Регистрация", Email: "Email", Password: "Пароль", Name: "Имя",
		SwitchToRegister: "нет аккаунта? регистрация", SwitchToLogin: "есть аккаунт? войти",

		Search: "Поиск", Genre: "Жанр", AllGenres: "Все", NoResults: "Книги не найдены",
		Page: "Страница", InStock: "в наличии", OutOfStock: "нет в наличии",

		CartEmpty: "Корзина пуста", Total: "Итого", Items: "шт.",

		RoleLabel: "Роль", Logout: "выйти",

		Appearance: "Внешний вид", Theme: "Тема", Language: "Язык интерфейса",
		ThemeLight: "Светлая", ThemeDark: "Тёмная",

		InDevelopment:     "В разработке",
		NotificationsBody: "Функция уведомлений находится в разработке и будет доступна в следующих обновлениях.",
		ComingSoon:        "Скоро в приложении!",
		Features: []string{
			"Уведомления о новых поступлениях книг",
			"Персональные рекомендации",
			"Статус заказов",
			"Специальные предложения и скидки",
		},

		Back: "назад", Quit: "выход", Working: "Выполняется...", Offline: "офлайн",

		roles: map[access.Role]string{
			access.RoleAdmin:   "Администратор",
			access.RoleManager: "Менеджер",
			access.RoleUser:    "Пользователь",
		},
	},
}

// labelsFor returns the text for lang, falling back to English.
func labelsFor(lang string) labels {
	if l, ok := catalogLabels[lang]; ok {
		return l
	}
	return catalogLabels[config.LanguageEN]
}

// Role returns the display name of r.
func (l labels) Role(r access.Role) string {
	if s, ok := l.roles[r]; ok {
		return s
	}
	return string(r)
}

// Screen returns the title of s.
func (l labels) Screen(s access.Screen) string {
	switch s {
	case access.ScreenHome, access.ScreenBookDetails:
		return l.Home
	case access.ScreenCart:
		return l.Cart
	case access.ScreenProfile:
		return l.Profile
	case access.ScreenManager:
		return l.Manager
	case access.ScreenAdmin:
		return l.Admin
	case access.ScreenEditProfile:
		return l.EditProfile
	case access.ScreenSettings:
		return l.Settings
	case access.ScreenNotifications:
		return l.Notifications
	}
	return string(s)
}
