package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"chatgallery/internal/config"
	"chatgallery/internal/db"
	"chatgallery/internal/domain"
	"chatgallery/internal/fetch"
	"chatgallery/internal/tui"
	"chatgallery/internal/version"
)

func main() {
	// Essential command line flags only (GNU-style double dashes)
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/chatgallery/config.json)")
	dbPathFlag := flag.String("db", "", "Path to the archive database (default: ~/.config/chatgallery/archive.db)")
	seedFlag := flag.String("seed", "", "Seed the archive from a JSON message dump and exit")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                        # Browse the default archive\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --seed dump.json       # Import messages into the archive\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --db /tmp/demo.db      # Browse a specific archive\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --version              # Show version information\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fmt.Fprintf(os.Stderr, "  --config string\n        %s\n", "Path to JSON configuration file (default: ~/.config/chatgallery/config.json)")
		fmt.Fprintf(os.Stderr, "  --db string\n        %s\n", "Path to the archive database (default: ~/.config/chatgallery/archive.db)")
		fmt.Fprintf(os.Stderr, "  --seed string\n        %s\n", "Seed the archive from a JSON message dump and exit")
		fmt.Fprintf(os.Stderr, "  --version\n        %s\n\n", "Show version information and exit")
		fmt.Fprintf(os.Stderr, "Environment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CHATGALLERY_CONFIG    Override default config file path\n")
		fmt.Fprintf(os.Stderr, "  CHATGALLERY_DB        Override default archive database path\n\n")
		fmt.Fprintf(os.Stderr, "For all other settings (paging, fetching, themes, keys), edit the config file.\n")
	}

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	// Load configuration with smart defaults and environment variable support
	configPath := getConfigPath(*configPathFlag)

	manager := config.NewManager()
	if err := manager.LoadFromFile(configPath); err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
		manager.LoadFromDefaults()
	}
	cfg := manager.GetConfig()

	dbPath := getDBPath(*dbPathFlag, cfg.DBPath)

	ctx := context.Background()
	store, err := db.Open(ctx, dbPath)
	if err != nil {
		log.Fatalf("Could not open archive at %s: %v", dbPath, err)
	}
	defer func() { _ = store.Close() }()

	messages := db.NewMessageStore(store)

	if *seedFlag != "" {
		if err := seedArchive(ctx, messages, *seedFlag); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		return
	}

	sessions := db.NewSessions(store, nil)
	fetcher := fetch.NewHTTPFetcher(cfg.GetFetchTimeout(), cfg.Fetch.MaxBytes)

	app := tui.NewApp(messages, sessions, fetcher, cfg)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath returns the configuration file path using the following priority:
// 1. CLI flag
// 2. Environment variable CHATGALLERY_CONFIG
// 3. Default path ~/.config/chatgallery/config.json
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envPath := os.Getenv("CHATGALLERY_CONFIG"); envPath != "" {
		return expandPath(envPath)
	}

	return config.DefaultConfigPath()
}

// getDBPath returns the archive database path using the following priority:
// 1. CLI flag
// 2. Environment variable CHATGALLERY_DB
// 3. Config file setting
// 4. Default path ~/.config/chatgallery/archive.db
func getDBPath(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envPath := os.Getenv("CHATGALLERY_DB"); envPath != "" {
		return expandPath(envPath)
	}

	if configValue != "" {
		return expandPath(configValue)
	}

	return config.DefaultDBPath()
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	return home + path[1:]
}

// seedMessage mirrors domain.Message with the wire names a dump file uses
type seedMessage struct {
	ID             string           `json:"id"`
	ConversationID string           `json:"conversation_id"`
	Sender         string           `json:"sender"`
	Snippet        string           `json:"snippet"`
	CreatedAt      time.Time        `json:"created_at"`
	Attachments    []seedAttachment `json:"attachments"`
}

type seedAttachment struct {
	Kind       string `json:"kind"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
}

// seedArchive imports a JSON message dump into the archive in one batch
func seedArchive(ctx context.Context, store *db.MessageStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seeds []seedMessage
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	if len(seeds) == 0 {
		return fmt.Errorf("seed file %s holds no messages", path)
	}

	msgs := make([]domain.Message, 0, len(seeds))
	for _, s := range seeds {
		msg := domain.Message{
			ID:             s.ID,
			ConversationID: s.ConversationID,
			Sender:         s.Sender,
			Snippet:        s.Snippet,
			CreatedAt:      s.CreatedAt,
		}
		for _, att := range s.Attachments {
			msg.Attachments = append(msg.Attachments, domain.Attachment{
				Kind:       domain.ParseAttachmentKind(att.Kind),
				URL:        att.URL,
				PreviewURL: att.PreviewURL,
				Filename:   att.Filename,
				Size:       att.Size,
			})
		}
		msgs = append(msgs, msg)
	}

	if err := store.SaveMessages(ctx, msgs); err != nil {
		return err
	}
	fmt.Printf("Imported %d messages into the archive\n", len(msgs))
	return nil
}
