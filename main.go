package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cloudtalk/internal/blob"
	"cloudtalk/internal/config"
	"cloudtalk/internal/crypto"
	"cloudtalk/internal/engine"
	"cloudtalk/internal/events"
	"cloudtalk/internal/models"
	"cloudtalk/internal/rabbitmq"
	"cloudtalk/internal/session"
	"cloudtalk/internal/telemetry"
	"cloudtalk/internal/tracing"
)

func main() {
	nameFlag := flag.String("name", "", "display name to log in with (overrides the saved session)")
	flag.Parse()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := tracing.Setup(ctx, cfg.Service, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdown(context.Background())

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))
	emitter := telemetry.NewNotificationEmitter(publisher, "notifications.chat", cfg.Service, cfg.Environment)

	client := blob.NewHTTPClient(cfg.BlobURL)
	eng := engine.New(client, engine.Options{
		PollInterval: cfg.PollInterval,
		Emitter:      emitter,
	})

	if err := eng.Load(ctx); err != nil {
		log.Fatalf("could not load app data: %v", err)
	}

	sessions, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	user, err := loginUser(ctx, eng, sessions, *nameFlag)
	if err != nil {
		log.Fatalf("could not log in: %v", err)
	}
	log.Printf("logged in as %s (%s)", user.DisplayName, user.UID)

	eng.SetCurrentUser(user.UID)
	if err := eng.Start(ctx); err != nil {
		log.Fatalf("failed to start poll scheduler: %v", err)
	}
	defer eng.Stop()

	cipher, err := crypto.NewCipher(cfg.SecretKey)
	if err != nil {
		log.Fatalf("failed to init message cipher: %v", err)
	}

	go serveMetrics(cfg.MetricsAddr)

	sub := eng.Hub().Subscribe(16)
	defer eng.Hub().Unsubscribe(sub)
	go printNotifications(sub, cipher)

	runShell(ctx, eng, sessions, cipher, user)
}

func loginUser(ctx context.Context, eng *engine.Engine, sessions *session.Store, name string) (models.User, error) {
	if name == "" {
		if saved, ok, err := sessions.Load(); err != nil {
			return models.User{}, err
		} else if ok {
			return saved, nil
		}
		fmt.Print("display name: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return models.User{}, err
		}
		name = strings.TrimSpace(line)
	}

	user, err := eng.ResolveUser(ctx, name)
	if err != nil {
		return models.User{}, err
	}
	if err := sessions.Save(user); err != nil {
		log.Printf("could not persist session: %v", err)
	}
	return user, nil
}

func serveMetrics(addr string) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if err := router.Run(addr); err != nil {
		log.Printf("metrics server error: %v", err)
	}
}

func printNotifications(sub chan events.Notification, cipher *crypto.Cipher) {
	for n := range sub {
		switch n.Kind {
		case events.KindNewChat:
			fmt.Printf("\n* %s started a conversation with you\n> ", n.FromName)
		case events.KindNewMessage:
			fmt.Printf("\n* %s: %s\n> ", n.FromName, cipher.Decrypt(n.Text))
		}
	}
}

// runShell is a thin driver over the engine, not a UI layer: list chats,
// open one, send messages, log out.
func runShell(ctx context.Context, eng *engine.Engine, sessions *session.Store, cipher *crypto.Cipher, user models.User) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("commands: chats | open <name> | msg <text> | logout | quit")
	fmt.Print("> ")

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		cmd, rest, _ := strings.Cut(line, " ")

		switch cmd {
		case "chats":
			listChats(eng, user.UID)
		case "open":
			openChat(ctx, eng, cipher, user.UID, strings.TrimSpace(rest))
		case "msg":
			sendMessage(ctx, eng, cipher, user.UID, rest)
		case "logout":
			eng.Stop()
			eng.SetCurrentUser("")
			if err := sessions.Clear(); err != nil {
				log.Printf("could not clear session: %v", err)
			}
			fmt.Println("logged out")
			return
		case "quit", "exit":
			return
		case "":
		default:
			fmt.Println("unknown command")
		}
		fmt.Print("> ")
	}
}

func listChats(eng *engine.Engine, uid string) {
	doc, ok := eng.Document()
	if !ok {
		fmt.Println("not loaded yet")
		return
	}
	for _, chat := range doc.Chats {
		if !chat.HasParticipant(uid) {
			continue
		}
		other, _ := doc.UserByUID(chat.OtherParticipant(uid))
		marker := ""
		if n := chat.Unread(uid); n > 0 {
			marker = fmt.Sprintf(" (%d unread)", n)
		}
		fmt.Printf("  %s%s\n", other.DisplayName, marker)
	}
}

func openChat(ctx context.Context, eng *engine.Engine, cipher *crypto.Cipher, uid, otherName string) {
	doc, ok := eng.Document()
	if !ok {
		fmt.Println("not loaded yet")
		return
	}
	other, found := doc.UserByName(otherName)
	if !found {
		fmt.Printf("no user named %q\n", otherName)
		return
	}

	chat, err := eng.StartChat(ctx, uid, other.UID)
	if err != nil {
		log.Printf("could not open chat: %v", err)
		return
	}
	eng.SetOpenChat(chat.ID)
	if err := eng.MarkChatRead(ctx, chat.ID, uid); err != nil {
		log.Printf("could not mark chat read: %v", err)
	}

	for _, msg := range chat.SortedMessages() {
		sender, _ := doc.UserByUID(msg.SenderID)
		fmt.Printf("  [%s] %s: %s\n", msg.Timestamp.Local().Format("15:04"), sender.DisplayName, cipher.Decrypt(msg.DisplayText()))
	}
}

func sendMessage(ctx context.Context, eng *engine.Engine, cipher *crypto.Cipher, uid, text string) {
	chatID := eng.OpenChat()
	if chatID == "" {
		fmt.Println("open a chat first")
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	sealed, err := cipher.Encrypt(text)
	if err != nil {
		log.Printf("could not encrypt message: %v", err)
		return
	}
	if _, err := eng.SendMessage(ctx, chatID, uid, sealed, ""); err != nil {
		log.Printf("could not send message: %v", err)
	}
}
