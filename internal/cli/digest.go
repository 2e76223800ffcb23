package cli

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"task-tracker/internal/config"
	"task-tracker/internal/notify"
	"task-tracker/internal/output"
	"task-tracker/internal/service"
)

const digestTimeout = 30 * time.Second

func newDigestCmd(a *app) *cobra.Command {
	var watch, sendNow bool
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Show overdue tasks, or send them on a schedule with --watch",
		Long: `Without flags, prints open tasks whose due date has passed.

With --watch, runs until interrupted and sends the overdue digest to Telegram
(TELEGRAM_TOKEN and TELEGRAM_CHAT_ID) or to the log. DIGEST_AT=HH:MM sends it
daily; otherwise it is sent every DIGEST_INTERVAL_HOURS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reminders := service.NewReminderService(a.tasks)
			if !watch {
				overdue, err := reminders.Overdue(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), overdue, func(w io.Writer) {
					output.TaskTable(w, overdue)
				})
			}

			notifier, err := newNotifier(a.cfg)
			if err != nil {
				return err
			}
			return runDigestLoop(cmd.Context(), a.cfg, reminders, notifier, sendNow)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "send the digest on a schedule until interrupted")
	cmd.Flags().BoolVar(&sendNow, "now", false, "with --watch, also send one digest immediately")
	return cmd
}

func newNotifier(cfg config.Config) (notify.Notifier, error) {
	if cfg.TelegramToken == "" {
		return notify.NewLog(nil), nil
	}
	return notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
}

func runDigestLoop(ctx context.Context, cfg config.Config, reminders *service.ReminderService, notifier notify.Notifier, sendNow bool) error {
	send := func() {
		jobCtx, cancel := context.WithTimeout(ctx, digestTimeout)
		defer cancel()
		if err := sendDigest(jobCtx, reminders, notifier, time.Now()); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("digest: %v", err)
		}
	}

	scheduler := service.NewSchedulerService(time.Local)
	id, err := scheduler.ScheduleDigest(cfg.DigestAt, cfg.DigestInterval, send)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("[info] digest scheduler started, next run at %s", scheduler.Next(id).Format(time.RFC3339))
	if sendNow {
		send()
	}

	<-ctx.Done()
	log.Println("[info] digest scheduler stopping")
	return nil
}

// sendDigest notifies only when at least one task is overdue.
func sendDigest(ctx context.Context, reminders *service.ReminderService, notifier notify.Notifier, now time.Time) error {
	text, err := reminders.OverdueSummary(ctx, now)
	if err != nil {
		return err
	}
	if text == "" {
		log.Println("[info] digest: nothing overdue")
		return nil
	}
	return notifier.Notify(ctx, text)
}
