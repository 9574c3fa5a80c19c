// Package i18n holds the user-facing strings of the sign-in components.
package i18n

import (
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Message IDs.
const (
	SignIn        = "SignIn"
	SignUp        = "SignUp"
	LoginFailed   = "LoginFailed"
	GoogleFailed  = "GoogleFailed"
	LinkAccount   = "LinkAccount"
	UnlinkAccount = "UnlinkAccount"
	Linked        = "Linked"
	LinkFailed    = "LinkFailed"
	UnlinkFailed  = "UnlinkFailed"
	NotConfigured = "NotConfigured"
	Loading       = "Loading"
)

var english = []*goi18n.Message{
	{ID: SignIn, Other: "Sign in with Google"},
	{ID: SignUp, Other: "Sign up with Google"},
	{ID: LoginFailed, Other: "Login failed, please try again"},
	{ID: GoogleFailed, Other: "Google login failed, please check your network connection"},
	{ID: LinkAccount, Other: "Link Google account"},
	{ID: UnlinkAccount, Other: "Unlink Google account"},
	{ID: Linked, Other: "Google account linked"},
	{ID: LinkFailed, Other: "Linking failed"},
	{ID: UnlinkFailed, Other: "Unlinking failed"},
	{ID: NotConfigured, Other: "Google sign-in is unavailable"},
	{ID: Loading, Other: "Signing in..."},
}

var chinese = []*goi18n.Message{
	{ID: SignIn, Other: "使用 Google 登录"},
	{ID: SignUp, Other: "使用 Google 注册"},
	{ID: LoginFailed, Other: "登录失败，请重试"},
	{ID: GoogleFailed, Other: "Google登录失败，请检查网络连接"},
	{ID: LinkAccount, Other: "关联 Google 账号"},
	{ID: UnlinkAccount, Other: "取消关联 Google 账号"},
	{ID: Linked, Other: "已关联 Google 账号"},
	{ID: LinkFailed, Other: "关联失败"},
	{ID: UnlinkFailed, Other: "取消关联失败"},
	{ID: NotConfigured, Other: "Google 登录不可用"},
	{ID: Loading, Other: "正在登录..."},
}

var bundle = newBundle()

func newBundle() *goi18n.Bundle {
	b := goi18n.NewBundle(language.English)
	if err := b.AddMessages(language.English, english...); err != nil {
		panic(err)
	}
	if err := b.AddMessages(language.Make("zh-CN"), chinese...); err != nil {
		panic(err)
	}
	return b
}

// Localizer translates message IDs into one preferred language,
// falling back to English.
type Localizer struct {
	loc *goi18n.Localizer
}

// New returns a Localizer for the given BCP 47 tags, most preferred first.
func New(langs ...string) *Localizer {
	return &Localizer{loc: goi18n.NewLocalizer(bundle, langs...)}
}

// T returns the translation of id. Unknown ids come back verbatim.
func (l *Localizer) T(id string) string {
	if l == nil {
		l = New()
	}
	s, err := l.loc.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil {
		log.Debugf("no translation for %v: %v", id, err)
		return id
	}
	return s
}
