package system

import "time"

type CompanySettings struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Address string `json:"address"`
}

type SecuritySettings struct {
	PasswordMinLength int  `json:"passwordMinLength"`
	SessionTimeout    int  `json:"sessionTimeout"`
	TwoFactorRequired bool `json:"twoFactorRequired"`
	AllowRemoteAccess bool `json:"allowRemoteAccess"`
}

type NotificationSettings struct {
	EmailEnabled       bool `json:"emailEnabled"`
	LeaveReminders     bool `json:"leaveReminders"`
	DocumentExpiryDays int  `json:"documentExpiryDays"`
}

type Settings struct {
	Company         CompanySettings      `json:"company"`
	Security        SecuritySettings     `json:"security"`
	Notifications   NotificationSettings `json:"notifications"`
	MaintenanceMode bool                 `json:"maintenanceMode"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func DefaultSettings() Settings {
	return Settings{
		Company: CompanySettings{Name: "Company Ltd", Email: "hr@company.com"},
		Security: SecuritySettings{
			PasswordMinLength: 8,
			SessionTimeout:    30,
			AllowRemoteAccess: true,
		},
		Notifications: NotificationSettings{
			EmailEnabled:       true,
			LeaveReminders:     true,
			DocumentExpiryDays: 30,
		},
	}
}

type CompanyPatch struct {
	Name    *string `json:"name" validate:"omitempty,max=200"`
	Email   *string `json:"email" validate:"omitempty,email,max=254"`
	Phone   *string `json:"phone" validate:"omitempty,max=40"`
	Website *string `json:"website" validate:"omitempty,max=500"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

type SecurityPatch struct {
	PasswordMinLength *int  `json:"passwordMinLength" validate:"omitempty,min=8,max=72"`
	SessionTimeout    *int  `json:"sessionTimeout" validate:"omitempty,min=5,max=1440"`
	TwoFactorRequired *bool `json:"twoFactorRequired"`
	AllowRemoteAccess *bool `json:"allowRemoteAccess"`
}

type NotificationsPatch struct {
	EmailEnabled       *bool `json:"emailEnabled"`
	LeaveReminders     *bool `json:"leaveReminders"`
	DocumentExpiryDays *int  `json:"documentExpiryDays" validate:"omitempty,min=1,max=365"`
}

// SettingsPatch updates any subset of fields in any section.
type SettingsPatch struct {
	Company         *CompanyPatch       `json:"company"`
	Security        *SecurityPatch      `json:"security"`
	Notifications   *NotificationsPatch `json:"notifications"`
	MaintenanceMode *bool               `json:"maintenanceMode"`
}

func (p SettingsPatch) empty() bool {
	return p.Company == nil && p.Security == nil && p.Notifications == nil && p.MaintenanceMode == nil
}

func (p SettingsPatch) apply(s *Settings) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	if c := p.Company; c != nil {
		setStr(&s.Company.Name, c.Name)
		setStr(&s.Company.Email, c.Email)
		setStr(&s.Company.Phone, c.Phone)
		setStr(&s.Company.Website, c.Website)
		setStr(&s.Company.Address, c.Address)
	}
	if sec := p.Security; sec != nil {
		setInt(&s.Security.PasswordMinLength, sec.PasswordMinLength)
		setInt(&s.Security.SessionTimeout, sec.SessionTimeout)
		setBool(&s.Security.TwoFactorRequired, sec.TwoFactorRequired)
		setBool(&s.Security.AllowRemoteAccess, sec.AllowRemoteAccess)
	}
	if n := p.Notifications; n != nil {
		setBool(&s.Notifications.EmailEnabled, n.EmailEnabled)
		setBool(&s.Notifications.LeaveReminders, n.LeaveReminders)
		setInt(&s.Notifications.DocumentExpiryDays, n.DocumentExpiryDays)
	}
	setBool(&s.MaintenanceMode, p.MaintenanceMode)
}
