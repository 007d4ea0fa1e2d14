package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supported = []language.Tag{language.English, language.Korean}

var matcher = language.NewMatcher(supported)

var cat = newCatalog()

type translation struct {
	en string
	ko string
}

var messages = map[string]translation{
	"app.title":  {"🚲 Bike Sharing App", "🚲 Bike Sharing App"},
	"menu.label": {"Menu", "메뉴"},

	"menu.home":     {"Home", "홈"},
	"menu.login":    {"Log in", "로그인"},
	"menu.register": {"Register", "회원가입"},
	"menu.profile":  {"Profile", "사용자 정보"},
	"menu.eda":      {"EDA", "EDA"},
	"menu.logout":   {"Log out", "로그아웃"},

	"session.logged_in_as": {"Logged in as %s", "%s 님 로그인 중"},

	"form.email":    {"Email", "이메일"},
	"form.password": {"Password", "비밀번호"},
	"form.name":     {"Name", "이름"},
	"form.gender":   {"Gender", "성별"},
	"form.phone":    {"Phone", "전화번호"},
	"form.invalid":  {"Please check: %s", "입력값을 확인해주세요: %s"},

	"gender.unspecified": {"Prefer not to say", "선택 안함"},
	"gender.male":        {"Male", "남성"},
	"gender.female":      {"Female", "여성"},

	"home.heading": {"📌 Project overview", "📌 프로젝트 개요"},

	"register.heading": {"📝 Register", "📝 회원가입"},
	"register.submit":  {"Register", "회원가입"},
	"register.success": {"Registration successful! Please log in.", "회원가입 성공! 로그인 해주세요."},
	"register.failed":  {"The account already exists or an error occurred.", "이미 존재하는 계정이거나 오류가 발생했습니다."},

	"login.heading": {"🔐 Log in", "🔐 로그인"},
	"login.submit":  {"Log in", "로그인"},
	"login.success": {"Logged in", "로그인 성공"},
	"login.failed":  {"Login failed", "로그인 실패"},

	"profile.heading":       {"👤 Edit profile", "👤 사용자 정보 수정"},
	"profile.image":         {"Upload profile image", "프로필 이미지 업로드"},
	"profile.submit":        {"Save changes", "수정 저장"},
	"profile.saved":         {"Saved", "수정 완료"},
	"profile.failed":        {"The profile could not be saved.", "사용자 정보를 저장하지 못했습니다."},
	"profile.invalid_image": {"Profile images must be JPG or PNG files.", "프로필 이미지는 JPG 또는 PNG 파일이어야 합니다."},

	"eda.heading":      {"📊 EDA - Bike rental analysis", "📊 EDA - 자전거 대여 분석"},
	"eda.upload":       {"Upload CSV file (train.csv)", "CSV 파일 업로드 (train.csv)"},
	"eda.submit":       {"Analyze", "분석"},
	"eda.rows":         {"%d rows", "%d행"},
	"eda.preview":      {"First rows", "처음 몇 행"},
	"eda.invalid_file": {"Please upload a CSV file.", "CSV 파일을 업로드해주세요."},
	"eda.failed":       {"The file could not be read as a table.", "파일을 표로 읽을 수 없습니다."},
	"eda.chart_failed": {"This chart could not be drawn: %s", "그래프를 그릴 수 없습니다: %s"},

	"eda.chart.hour":          {"Rentals by hour", "시간대별 대여 건수"},
	"eda.chart.day_of_week":   {"Rentals by weekday (0 = Monday)", "요일별 대여 건수 (0 = 월요일)"},
	"eda.chart.temp_humidity": {"Temperature and humidity", "기온과 습도"},

	"logout.done": {"You have been logged out.", "로그아웃 되었습니다."},

	"notfound.heading": {"Page not found", "페이지를 찾을 수 없습니다"},
	"notfound.back":    {"Back to home", "홈으로"},
}

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range messages {
		mustSet(b, language.English, key, tr.en)
		mustSet(b, language.Korean, key, tr.ko)
	}
	return b
}

func mustSet(b *catalog.Builder, tag language.Tag, key, msg string) {
	err := b.SetString(tag, key, msg)
	if err != nil {
		panic(fmt.Sprintf("i18n: %s %s: %v", tag, key, err))
	}
}

// Match returns the supported language closest to locale; English when
// nothing matches.
func Match(locale string) language.Tag {
	_, idx, _ := matcher.Match(language.Make(locale))
	return supported[idx]
}

// Printer formats catalog keys in the language matched from locale.
// Unknown keys are printed as-is.
func Printer(locale string) *message.Printer {
	return message.NewPrinter(Match(locale), message.Catalog(cat))
}
