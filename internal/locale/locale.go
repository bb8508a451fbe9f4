package locale

import (
	"fmt"
	"time"

	"todoCalendar/internal/dates"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Ключи сообщений для уведомлений и подписей интерфейса.
const (
	MsgTodoAdded       = "Todo added!"
	MsgTodoDeleted     = "Todo deleted!"
	MsgLoadFailed      = "Failed to load todos."
	MsgAddFailed       = "Failed to add todo: %s"
	MsgToggleFailed    = "Failed to change status."
	MsgDeleteFailed    = "Failed to delete todo."
	MsgSignInRequired  = "Please sign in again."
	MsgDueSoonTitle    = "Due soon: %s"
	MsgHoursLeft       = "%d hours left!"
	MsgLessThanHour    = "Less than an hour left!"
	MsgEmptyAll        = "No todos yet. Add a new one!"
	MsgEmptyCategory   = "No todos in this category."
	MsgCompleted       = "Completed"
	MsgIncomplete      = "Incomplete"
	MsgSignedUp        = "Check your email to confirm your account."
	MsgMonthTitleShape = "January 2006"
	MsgDueDateShape    = "January 2, 2006 15:04"
)

var (
	English = language.English
	Korean  = language.Korean
)

var supported = language.NewMatcher([]language.Tag{English, Korean})

var korean = map[string]string{
	dates.MsgPastDue:        "마감 지남",
	dates.MsgWithinHour:     "1시간 이내",
	dates.MsgHoursRemaining: "%d시간 남음",
	dates.MsgDaysRemaining:  "%d일 남음",
	MsgTodoAdded:            "할 일이 추가되었습니다!",
	MsgTodoDeleted:          "할 일이 삭제되었습니다!",
	MsgLoadFailed:           "할 일을 불러오는데 실패했습니다.",
	MsgAddFailed:            "할 일 추가 실패: %s",
	MsgToggleFailed:         "상태 변경에 실패했습니다.",
	MsgDeleteFailed:         "삭제에 실패했습니다.",
	MsgSignInRequired:       "로그인이 필요합니다. 다시 로그인해주세요.",
	MsgDueSoonTitle:         "마감 임박: %s",
	MsgHoursLeft:            "%d시간 남았습니다!",
	MsgLessThanHour:         "1시간 이내 남았습니다!",
	MsgEmptyAll:             "할 일이 없습니다. 새 할 일을 추가해보세요!",
	MsgEmptyCategory:        "이 카테고리에 할 일이 없습니다.",
	MsgCompleted:            "완료",
	MsgIncomplete:           "미완료",
	MsgSignedUp:             "이메일을 확인해 가입을 완료하세요.",
	MsgMonthTitleShape:      "2006년 1월",
	MsgDueDateShape:         "2006년 1월 2일 15:04",
	"Default":               "기본",
	"Work":                  "업무",
	"Personal":              "개인",
	"Shopping":              "쇼핑",
	"Health":                "건강",
	"Sun":                   "일",
	"Mon":                   "월",
	"Tue":                   "화",
	"Wed":                   "수",
	"Thu":                   "목",
	"Fri":                   "금",
	"Sat":                   "토",
}

func newCatalog() (catalog.Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(English))

	pluralized := map[string][2]string{
		dates.MsgHoursRemaining: {"%d hour remaining", "%d hours remaining"},
		dates.MsgDaysRemaining:  {"%d day remaining", "%d days remaining"},
		MsgHoursLeft:            {"%d hour left!", "%d hours left!"},
	}
	for key, forms := range pluralized {
		err := b.Set(English, key, plural.Selectf(1, "%d", "=1", forms[0], "other", forms[1]))
		if err != nil {
			return nil, fmt.Errorf("каталог en %q: %w", key, err)
		}
	}

	for key, msg := range korean {
		if err := b.SetString(Korean, key, msg); err != nil {
			return nil, fmt.Errorf("каталог ko %q: %w", key, err)
		}
	}
	return b, nil
}

// Printer renders display strings in one locale.
type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

// New picks the closest supported locale for the given BCP 47 tag ("en", "ko-KR", ...).
func New(tag string) (*Printer, error) {
	cat, err := newCatalog()
	if err != nil {
		return nil, err
	}

	requested, err := language.Parse(tag)
	if err != nil {
		requested = English
	}
	_, idx, _ := supported.Match(requested)
	matched := []language.Tag{English, Korean}[idx]

	return &Printer{
		tag:     matched,
		printer: message.NewPrinter(matched, message.Catalog(cat)),
	}, nil
}

func MustNew(tag string) *Printer {
	p, err := New(tag)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Printer) Tag() language.Tag {
	return p.tag
}

func (p *Printer) Sprintf(key string, args ...any) string {
	return p.printer.Sprintf(key, args...)
}

func (p *Printer) Remaining(due, now time.Time) string {
	return dates.FormatRemainingWith(p.Sprintf, due, now)
}

// Date formats t with a layout that is itself a translatable key.
func (p *Printer) Date(layoutKey string, t time.Time) string {
	return t.Format(p.Sprintf(layoutKey))
}

func (p *Printer) Weekdays() []string {
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = p.Sprintf(n)
	}
	return out
}
