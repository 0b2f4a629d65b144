package models

// DeviceRegistration связывает устройство с активированным кодом и пользователем.
// Создаётся при первой успешной активации, перезаписывается повторной,
// удаляется явным выходом.
type DeviceRegistration struct {
	ActivationCode string `json:"activationCode"`
	UserID         string `json:"userId"`
	Product        string `json:"product"`
	RefreshToken   string `json:"refreshToken"`
}

// SessionRecord - текущая аутентифицированная сессия. Живёт меньше регистрации
// устройства и может пересоздаваться без её удаления.
type SessionRecord struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// Projection возвращает сессию без токена: так её отдаёт хранилище,
// не умеющее возвращать токен при чтении.
func (s SessionRecord) Projection() SessionRecord {
	return SessionRecord{UserID: s.UserID, SessionID: s.SessionID}
}

// HasToken сообщает, содержит ли запись токен.
func (s SessionRecord) HasToken() bool {
	return s.Token != ""
}

// ConsistentWith проверяет, что сессия принадлежит пользователю регистрации.
// Отсутствие любой из записей не считается нарушением.
func (s *SessionRecord) ConsistentWith(reg *DeviceRegistration) bool {
	if s == nil || reg == nil {
		return true
	}
	return s.UserID == reg.UserID
}
