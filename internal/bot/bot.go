// Package bot serves the aggregator to Telegram users via long polling.
package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/internal/domain"
	"github.com/workscout/workscout/internal/domain/search"
	"github.com/workscout/workscout/pkg/logging"
)

const defaultPageSize = 5

// Searcher is the aggregator surface the bot depends on.
type Searcher interface {
	SearchAllSites(ctx context.Context, req domain.SearchRequest) (domain.AggregateResult, error)
	AvailableSites() []domain.SiteInfo
}

// Archiver records bot-initiated searches.
type Archiver interface {
	Save(source string, res domain.AggregateResult)
}

// Bot is the Telegram front-end.
type Bot struct {
	api      *tgbotapi.BotAPI
	searcher Searcher
	archive  Archiver
	log      *logging.Logger
	pageSize int
}

func New(cfg config.TelegramConfig, searcher Searcher, archive Archiver, log *logging.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram token is required")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram api: %w", err)
	}
	api.Debug = cfg.Debug

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Bot{
		api:      api,
		searcher: searcher,
		archive:  archive,
		log:      log.Named("bot"),
		pageSize: pageSize,
	}, nil
}

// Run polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("telegram bot starting", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	var reply string
	switch {
	case msg.IsCommand():
		reply = b.handleCommand(ctx, msg)
	default:
		reply = b.runSearch(ctx, msg.Text, "")
	}
	b.send(msg.Chat.ID, reply)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) string {
	switch msg.Command() {
	case "start":
		return startText
	case "help":
		return helpText
	case "sites":
		return formatSites(b.searcher.AvailableSites())
	case "search":
		keyword, location := parseSearchArgs(msg.CommandArguments())
		return b.runSearch(ctx, keyword, location)
	default:
		return "Неизвестная команда. Наберите /help."
	}
}

func (b *Bot) runSearch(ctx context.Context, keyword, location string) string {
	res, err := b.searcher.SearchAllSites(ctx, domain.SearchRequest{
		Keyword:  strings.TrimSpace(keyword),
		Location: location,
	})
	if err != nil {
		if errors.Is(err, search.ErrEmptyKeyword) {
			return "Укажите ключевое слово: /search golang"
		}
		b.log.Error("search failed", "error", err)
		return "Поиск временно недоступен, попробуйте позже."
	}

	b.archive.Save("telegram", res)
	return formatResult(res, b.pageSize)
}

func (b *Bot) send(chatID int64, text string) {
	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = tgbotapi.ModeHTML
	out.DisableWebPagePreview = true
	if _, err := b.api.Send(out); err != nil {
		b.log.Warn("failed to send message", "chat_id", chatID, "error", err)
	}
}

const startText = `Привет! Я ищу вакансии сразу на нескольких сайтах.

Отправьте ключевое слово или команду /search golang remote.
Список команд: /help`

const helpText = `Команды:
/search <слово> [локация] - поиск по всем сайтам
/sites - список доступных сайтов
/help - эта справка

Локация: id региона HH (1 - Москва, 113 - Россия) или remote.`

// parseSearchArgs splits "/search golang remote" arguments into keyword
// and optional trailing location.
func parseSearchArgs(args string) (keyword, location string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", ""
	}
	last := fields[len(fields)-1]
	if len(fields) > 1 && (last == domain.LocationRemote || isNumericList(last)) {
		return strings.Join(fields[:len(fields)-1], " "), last
	}
	return strings.Join(fields, " "), ""
}

func isNumericList(s string) bool {
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func formatSites(sites []domain.SiteInfo) string {
	var b strings.Builder
	b.WriteString("<b>Доступные сайты:</b>\n")
	for _, s := range sites {
		fmt.Fprintf(&b, "• %s (<code>%s</code>)\n", s.Name, s.ID)
	}
	return b.String()
}

// formatResult renders one aggregate result as an HTML message, showing
// at most pageSize jobs per site.
func formatResult(res domain.AggregateResult, pageSize int) string {
	if res.AllFailed() && len(res.Sites) > 0 {
		return "Все сайты недоступны, попробуйте позже."
	}
	if res.TotalJobs == 0 {
		return fmt.Sprintf("По запросу <b>%s</b> ничего не найдено.", escape(res.Keyword))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>: %d вакансий за %.0f мс\n", escape(res.Keyword), res.TotalJobs, res.GlobalTimeMS)

	for _, sr := range sortedResults(res) {
		b.WriteString("\n")
		if sr.Status == domain.StatusFailed {
			fmt.Fprintf(&b, "<b>%s</b>: ошибка поиска\n", escape(sr.Name))
			continue
		}
		fmt.Fprintf(&b, "<b>%s</b> (%d):\n", escape(sr.Name), sr.JobsCount)
		for i, job := range sr.Jobs {
			if i >= pageSize {
				fmt.Fprintf(&b, "… и еще %d\n", sr.JobsCount-pageSize)
				break
			}
			fmt.Fprintf(&b, "• <a href=%q>%s</a>", job.URL, escape(job.Title))
			if job.Salary != "" {
				fmt.Fprintf(&b, ", %s", escape(job.Salary))
			}
			if job.Company.Name != "" {
				fmt.Fprintf(&b, " / %s", escape(job.Company.Name))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// sortedResults orders per-site results by site id for stable messages.
func sortedResults(res domain.AggregateResult) []domain.SiteResult {
	ids := make([]string, 0, len(res.Sites))
	for id := range res.Sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.SiteResult, 0, len(ids))
	for _, id := range ids {
		out = append(out, res.Sites[id])
	}
	return out
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
