package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"aniverse/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func sampleTask() Task {
	return Task{
		RecipientProfileID: 7,
		RecipientEmail:     "author@example.com",
		CommentID:          42,
		Subject:            "New reply",
		Message:            "nice point\n/comment-retrieve/42/",
	}
}

func TestWorkerPool_RunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(3, discardLogger())
	pool.Start()

	var done atomic.Int32
	for i := 0; i < 20; i++ {
		err := pool.Submit(context.Background(), func(ctx context.Context) error {
			done.Add(1)
			return nil
		})
		require.NoError(t, err)
	}
	pool.Wait()

	assert.Equal(t, int32(20), done.Load())
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(1, discardLogger())
	pool.Start()
	pool.Shutdown()

	err := pool.Submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestWorkerPool_FailingJobDoesNotStopWorker(t *testing.T) {
	pool := NewWorkerPool(1, discardLogger())
	pool.Start()

	var ran atomic.Bool
	require.NoError(t, pool.Submit(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	}))
	require.NoError(t, pool.Submit(context.Background(), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	}))
	pool.Wait()

	assert.True(t, ran.Load())
}

func TestPoolDispatcher_DeliversAsync(t *testing.T) {
	pool := NewWorkerPool(1, discardLogger())
	pool.Start()
	defer pool.Shutdown()

	release := make(chan struct{})
	var mu sync.Mutex
	var got []Task
	handler := HandlerFunc(func(ctx context.Context, task Task) error {
		<-release
		mu.Lock()
		got = append(got, task)
		mu.Unlock()
		return nil
	})

	d := NewPoolDispatcher(pool, handler, time.Second)
	// returns before the handler is allowed to run
	require.NoError(t, d.Dispatch(context.Background(), sampleTask()))
	close(release)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, sampleTask(), got[0])
}

func TestDeliverer_Handle(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		inbox := new(MockInbox)
		mailer := new(MockMailer)
		task := sampleTask()

		inbox.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
			return n.ProfileID == 7 && n.CommentID == 42 && n.Message == task.Message
		})).Return(nil)
		mailer.On("Send", mock.Anything, "author@example.com", "New reply", task.Message).Return(nil)

		err := NewDeliverer(inbox, mailer, discardLogger()).Handle(context.Background(), task)

		assert.NoError(t, err)
		inbox.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("MailFailureStillStoresInbox", func(t *testing.T) {
		inbox := new(MockInbox)
		mailer := new(MockMailer)

		inbox.On("Create", mock.Anything, mock.Anything).Return(nil)
		mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("relay down"))

		err := NewDeliverer(inbox, mailer, discardLogger()).Handle(context.Background(), sampleTask())

		assert.ErrorContains(t, err, "relay down")
		inbox.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("NoEmailSkipsMail", func(t *testing.T) {
		inbox := new(MockInbox)
		mailer := new(MockMailer)
		task := sampleTask()
		task.RecipientEmail = ""

		inbox.On("Create", mock.Anything, mock.Anything).Return(nil)

		err := NewDeliverer(inbox, mailer, discardLogger()).Handle(context.Background(), task)

		assert.NoError(t, err)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 2525, Username: "u", Password: "p", From: "noreply@example.com"})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.NotNil(t, a)
		assert.Equal(t, "noreply@example.com", from)
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "a@example.com", "Hi", "body text"))

	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.True(t, strings.HasPrefix(gotMsg, "From: noreply@example.com\r\n"))
	assert.Contains(t, gotMsg, "Subject: Hi\r\n")
	assert.True(t, strings.HasSuffix(gotMsg, "\r\n\r\nbody text"))
}

func TestTaskCodec(t *testing.T) {
	payload, err := encodeTask(sampleTask())
	require.NoError(t, err)

	task, err := decodeTask(string(payload))
	require.NoError(t, err)
	assert.Equal(t, sampleTask(), task)

	_, err = decodeTask("{not json")
	assert.Error(t, err)
}
