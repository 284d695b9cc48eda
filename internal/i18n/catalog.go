package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys shared by the TUI and sentinelctl.
const (
	Loading          = "loading"
	AppTitle         = "app.title"
	NavChats         = "nav.chats"
	NavTasks         = "nav.tasks"
	NavOrders        = "nav.orders"
	NavProfile       = "nav.profile"
	NavSOS           = "nav.sos"
	LoginTitle       = "login.title"
	RegisterTitle    = "register.title"
	FieldEmail       = "field.email"
	FieldPassword    = "field.password"
	FieldFullName    = "field.full_name"
	ActionLogin      = "action.login"
	ActionRegister   = "action.register"
	ActionToRegister = "action.to_register"
	ActionToLogin    = "action.to_login"
	ActionSave       = "action.save"
	ActionSaving     = "action.saving"
	ActionSend       = "action.send"
	ActionLogout     = "action.logout"
	ActionCancel     = "action.cancel"
	ChatsTitle       = "chats.title"
	ChatsSearch      = "chats.search"
	ChatsEmpty       = "chats.empty"
	ChatsFindCode    = "chats.find_code"
	ChatsUserMissing = "chats.user_missing"
	Online           = "chat.online"
	MessagePlacehold = "chat.placeholder"
	ChatAttach       = "chat.attach"
	ChatNoMessages   = "chat.no_messages"
	ChatUpdateFailed = "chat.update_failed"
	SendFailed       = "chat.send_failed"
	TasksTitle       = "tasks.title"
	TasksNew         = "tasks.new"
	TasksEmpty       = "tasks.empty"
	TaskTitle        = "task.title"
	TaskDescription  = "task.description"
	TaskStart        = "task.start"
	TaskComplete     = "task.complete"
	OrdersTitle      = "orders.title"
	OrdersSubtitle   = "orders.subtitle"
	OrdersAvailable  = "orders.available"
	OrdersMine       = "orders.mine"
	OrdersSubmit     = "orders.submit"
	OrdersSuccess    = "orders.success"
	OrdersEmpty      = "orders.empty"
	OrderLabel       = "order.label"
	SOSTitle         = "sos.title"
	SOSSubtitle      = "sos.subtitle"
	SOSLocation      = "sos.location"
	SOSSend          = "sos.send"
	SOSSent          = "sos.sent_ok"
	SOSHistory       = "sos.history"
	ProfileTitle     = "profile.title"
	ProfileSubtitle  = "profile.subtitle"
	ProfileCode      = "profile.code"
	ProfileEdit      = "profile.edit"
	ProfileNameHint  = "profile.name_hint"
	ProfileAvatar    = "profile.avatar"
	SettingsTitle    = "settings.title"
	Notifications    = "settings.notifications"
	DarkMode         = "settings.dark_mode"
	SecurityTitle    = "security.title"
	SecurityWIP      = "security.wip"
	SecurityBody     = "security.body"
	HelpTitle        = "help.title"
	YouFallback      = "fallback.you"
	ContactFallback  = "fallback.contact"
	ErrRequired      = "error.required"
	ErrSession       = "error.session"
	ItemsCount       = "%d items"
)

type entry struct {
	key, ru, en string
}

var entries = []entry{
	{Loading, "Загрузка...", "Loading..."},
	{AppTitle, "Sentinel", "Sentinel"},
	{NavChats, "Чаты", "Chats"},
	{NavTasks, "Задачи", "Tasks"},
	{NavOrders, "Заявка", "Order"},
	{NavProfile, "Профиль", "Profile"},
	{NavSOS, "SOS", "SOS"},
	{LoginTitle, "Вход", "Sign in"},
	{RegisterTitle, "Регистрация", "Sign up"},
	{FieldEmail, "Email", "Email"},
	{FieldPassword, "Пароль", "Password"},
	{FieldFullName, "Полное имя", "Full name"},
	{ActionLogin, "Войти", "Sign in"},
	{ActionRegister, "Зарегистрироваться", "Create account"},
	{ActionToRegister, "Нет аккаунта? Регистрация", "No account? Sign up"},
	{ActionToLogin, "Уже есть аккаунт? Войти", "Have an account? Sign in"},
	{ActionSave, "Сохранить", "Save"},
	{ActionSaving, "Сохранение...", "Saving..."},
	{ActionSend, "Отправить", "Send"},
	{ActionLogout, "Выйти из аккаунта", "Sign out"},
	{ActionCancel, "Отмена", "Cancel"},
	{ChatsTitle, "Чаты", "Chats"},
	{ChatsSearch, "Поиск чатов...", "Search chats..."},
	{ChatsEmpty, "Нет чатов", "No chats yet"},
	{ChatsFindCode, "Код пользователя", "User code"},
	{ChatsUserMissing, "Пользователь не найден", "User not found"},
	{Online, "онлайн", "online"},
	{MessagePlacehold, "Сообщение...", "Message..."},
	{ChatAttach, "Вложение", "Attachment"},
	{ChatNoMessages, "Сообщений пока нет", "No messages yet"},
	{ChatUpdateFailed, "Сообщение отправлено, но чат не обновлён", "Message sent, chat summary not updated"},
	{SendFailed, "Не удалось отправить сообщение", "Message not sent"},
	{TasksTitle, "Задачи", "Tasks"},
	{TasksNew, "Новая задача", "New task"},
	{TasksEmpty, "Задач нет", "No tasks"},
	{TaskTitle, "Название", "Title"},
	{TaskDescription, "Описание", "Description"},
	{TaskStart, "Начать", "Start"},
	{TaskComplete, "Завершить", "Complete"},
	{OrdersTitle, "Заявки", "Orders"},
	{OrdersSubtitle, "Заказ необходимых товаров", "Order the supplies you need"},
	{OrdersAvailable, "Доступные товары", "Available products"},
	{OrdersMine, "Мои заявки", "My orders"},
	{OrdersSubmit, "Отправить заявку", "Submit order"},
	{OrdersSuccess, "Заявка успешно отправлена!", "Order submitted!"},
	{OrdersEmpty, "Заявок пока нет", "No orders yet"},
	{OrderLabel, "Заявка", "Order"},
	{SOSTitle, "SOS", "SOS"},
	{SOSSubtitle, "Экстренный вызов", "Emergency alert"},
	{SOSLocation, "Местоположение", "Location"},
	{SOSSend, "Отправить SOS", "Send SOS"},
	{SOSSent, "Сигнал SOS отправлен", "SOS alert sent"},
	{SOSHistory, "История сигналов", "Alert history"},
	{ProfileTitle, "Профиль", "Profile"},
	{ProfileSubtitle, "Управление учетной записью", "Manage your account"},
	{ProfileCode, "Ваш код", "Your code"},
	{ProfileEdit, "Редактировать профиль", "Edit profile"},
	{ProfileNameHint, "Иван Иванов", "John Doe"},
	{ProfileAvatar, "Файл аватара", "Avatar file"},
	{SettingsTitle, "Настройки", "Settings"},
	{Notifications, "Уведомления", "Notifications"},
	{DarkMode, "Темная тема", "Dark theme"},
	{SecurityTitle, "Безопасность", "Security"},
	{SecurityWIP, "Раздел в разработке", "Coming soon"},
	{SecurityBody, "Здесь будут настройки безопасности вашего аккаунта.", "Account security settings will appear here."},
	{HelpTitle, "Справка", "Help"},
	{YouFallback, "Вы", "You"},
	{ContactFallback, "Контакт", "Contact"},
	{ErrRequired, "Заполните обязательные поля", "Fill in the required fields"},
	{ErrSession, "Сессия истекла, войдите снова", "Session expired, sign in again"},
	{"order.processing", "Обрабатывается", "Processing"},
	{"order.ready", "Готова", "Ready"},
	{"order.completed", "Завершена", "Completed"},
	{"task.pending", "Ожидает", "Pending"},
	{"task.in_progress", "В процессе", "In progress"},
	{"task.completed", "Выполнена", "Completed"},
	{"sos.sent", "Отправлен", "Sent"},
	{"sos.acknowledged", "Принят", "Acknowledged"},
	{"sos.resolved", "Решён", "Resolved"},
}

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, e := range entries {
		_ = b.SetString(language.Russian, e.key, e.ru)
		_ = b.SetString(language.English, e.key, e.en)
	}
	_ = b.Set(language.Russian, ItemsCount, plural.Selectf(1, "%d",
		plural.One, "%d товар",
		plural.Few, "%d товара",
		plural.Many, "%d товаров",
		plural.Other, "%d товара",
	))
	_ = b.Set(language.English, ItemsCount, plural.Selectf(1, "%d",
		plural.One, "%d item",
		plural.Other, "%d items",
	))
	return b
}
