package models

// RecommendedStartOnboarding - рекомендуемое действие для пользователя без записи.
const RecommendedStartOnboarding = "start_onboarding"

// GoodHangAssessment - состояние оценки в продукте Good Hang.
type GoodHangAssessment struct {
	Completed    bool               `json:"completed"`
	Status       string             `json:"status"`
	Tier         *string            `json:"tier,omitempty"`
	Archetype    *string            `json:"archetype,omitempty"`
	OverallScore *float64           `json:"overall_score,omitempty"`
	Dimensions   map[string]float64 `json:"dimensions,omitempty"`
	Badges       []string           `json:"badges,omitempty"`
	SessionID    *string            `json:"session_id,omitempty"`
}

// SculptorStatus - состояние интервью Sculptor.
type SculptorStatus struct {
	Completed           bool   `json:"completed"`
	Status              string `json:"status"`
	TranscriptAvailable bool   `json:"transcript_available"`
}

// IdentityProfile - профиль идентичности Founder OS.
type IdentityProfile struct {
	Completed   bool     `json:"completed"`
	AnnualTheme *string  `json:"annual_theme,omitempty"`
	CoreValues  []string `json:"core_values,omitempty"`
}

// GoodHangProduct - доступность и прогресс Good Hang.
type GoodHangProduct struct {
	Enabled    bool                `json:"enabled"`
	Assessment *GoodHangAssessment `json:"assessment,omitempty"`
}

// FounderOSProduct - доступность и прогресс Founder OS.
type FounderOSProduct struct {
	Enabled         bool             `json:"enabled"`
	Sculptor        *SculptorStatus  `json:"sculptor,omitempty"`
	IdentityProfile *IdentityProfile `json:"identity_profile,omitempty"`
}

// VoiceOSProduct - доступность Voice OS.
type VoiceOSProduct struct {
	Enabled           bool `json:"enabled"`
	ContextFilesCount int  `json:"context_files_count"`
}

// Products - статусы всех продуктов.
type Products struct {
	GoodHang  GoodHangProduct  `json:"goodhang"`
	FounderOS FounderOSProduct `json:"founder_os"`
	VoiceOS   VoiceOSProduct   `json:"voice_os"`
}

// UserInfo - идентичность пользователя.
type UserInfo struct {
	ID       string  `json:"id"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// EntitiesInfo - сведения о сущностях пользователя.
type EntitiesInfo struct {
	Count     int  `json:"count"`
	HasEntity bool `json:"has_entity"`
}

// ContextsInfo - доступные и активный контексты.
type ContextsInfo struct {
	Available []string `json:"available"`
	Active    *string  `json:"active,omitempty"`
}

// UserStatus - агрегированный статус пользователя. Используется только для навигации UI.
type UserStatus struct {
	Found             bool         `json:"found"`
	User              *UserInfo    `json:"user,omitempty"`
	Products          Products     `json:"products"`
	Entities          EntitiesInfo `json:"entities"`
	Contexts          ContextsInfo `json:"contexts"`
	RecommendedAction string       `json:"recommended_action"`
}

// DefaultUserStatus возвращает статус для пользователя, о котором у сервиса нет записи.
func DefaultUserStatus() *UserStatus {
	return &UserStatus{
		Found:             false,
		Contexts:          ContextsInfo{Available: []string{}},
		RecommendedAction: RecommendedStartOnboarding,
	}
}
