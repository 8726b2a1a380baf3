package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pawhaven/config"
	"pawhaven/models"
	"pawhaven/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// ReminderPayload is the task body for a scheduled booking reminder.
type ReminderPayload struct {
	ReminderID string `json:"reminderId"`
	BookingID  string `json:"bookingId"`
	Target     string `json:"target"` // "client" or "contractor"
	ID         string `json:"id"`     // recipient id
	Title      string `json:"title"`
	Body       string `json:"body"`
	FireDate   string `json:"fireDate"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// ReminderQueue enqueues booking reminders for later delivery.
type ReminderQueue struct {
	client *asynq.Client
}

// NewReminderQueue builds a queue client against the reminder Redis DB.
func NewReminderQueue() *ReminderQueue {
	return &ReminderQueue{client: asynq.NewClient(redisOpts())}
}

// Schedule enqueues a reminder to fire at the given time.
func (q *ReminderQueue) Schedule(payload ReminderPayload, fireAt time.Time) error {
	payload.FireDate = fireAt.Format(time.RFC3339)
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeReminderSend, data)
	_, err = q.client.Enqueue(task, asynq.ProcessAt(fireAt))
	return err
}

// ScheduleVisitReminder enqueues visit reminders for both parties one hour
// before the booking starts. Reminders in the past are skipped.
func (q *ReminderQueue) ScheduleVisitReminder(b *models.Booking) error {
	fireAt := b.StartDate.Add(-time.Hour)
	if fireAt.Before(time.Now()) {
		return nil
	}
	clientPayload := ReminderPayload{
		ReminderID: uuid.New().String(),
		BookingID:  b.ID,
		Target:     "client",
		ID:         b.ClientID,
		Title:      "Upcoming visit",
		Body:       fmt.Sprintf("Your %s booking starts soon.", b.ServiceType),
	}
	if err := q.Schedule(clientPayload, fireAt); err != nil {
		return err
	}
	contractorPayload := ReminderPayload{
		ReminderID: uuid.New().String(),
		BookingID:  b.ID,
		Target:     "contractor",
		ID:         b.ContractorID,
		Title:      "Upcoming visit",
		Body:       fmt.Sprintf("You have a %s visit starting soon.", b.ServiceType),
	}
	return q.Schedule(contractorPayload, fireAt)
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(notifSvc notification.NotificationService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(notifSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		data := map[string]string{
			"reminderId": p.ReminderID,
			"bookingId":  p.BookingID,
			"fireDate":   p.FireDate,
		}

		var err error
		switch p.Target {
		case "client":
			err = notifSvc.SendClientPush(ctx, p.ID, p.Title, p.Body, data)
		case "contractor":
			err = notifSvc.SendContractorPush(ctx, p.ID, p.Title, p.Body, data)
		default:
			log.Printf("[ReminderHandler] unknown target type: %s", p.Target)
			return nil
		}

		if err != nil {
			log.Printf("[ReminderHandler] failed to send notification: %v", err)
		}
		return err
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
