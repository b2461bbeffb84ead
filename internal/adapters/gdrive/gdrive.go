// Package gdrive delivers artifacts by uploading them to a Google Drive folder.
package gdrive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
)

// Options configures the Drive channel. The destination's Token is the
// OAuth refresh token and its ID the target folder.
type Options struct {
	ClientID     string // Required
	ClientSecret string // Required
	// TokenURL overrides the Google token endpoint. Used by tests.
	TokenURL string
	// APIEndpoint overrides the Drive API base URL. Used by tests.
	APIEndpoint string
	Logger      *slog.Logger
}

// Channel implements core.DeliveryChannel for Google Drive.
type Channel struct {
	oauth       oauth2.Config
	apiEndpoint string
	logger      *slog.Logger
}

var _ core.DeliveryChannel = (*Channel)(nil)

// New validates opts and constructs the channel.
func New(opts Options) (*Channel, error) {
	if strings.TrimSpace(opts.ClientID) == "" || strings.TrimSpace(opts.ClientSecret) == "" {
		return nil, errors.New("gdrive client id and secret are required")
	}
	endpoint := google.Endpoint
	if opts.TokenURL != "" {
		endpoint.TokenURL = opts.TokenURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		oauth: oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{drive.DriveFileScope},
		},
		apiEndpoint: opts.APIEndpoint,
		logger:      logger.With("component", "gdrive"),
	}, nil
}

// Name implements core.DeliveryChannel.
func (c *Channel) Name() string { return "gdrive" }

// Connect exchanges the refresh token and checks the account is reachable.
func (c *Channel) Connect(ctx context.Context, dest model.Destination) (core.DeliverySession, error) {
	if dest.Token == "" {
		return nil, errors.New("gdrive destination requires a refresh token")
	}

	hc := c.oauth.Client(ctx, &oauth2.Token{RefreshToken: dest.Token})
	svcOpts := []option.ClientOption{option.WithHTTPClient(hc)}
	if c.apiEndpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(c.apiEndpoint))
	}
	srv, err := drive.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	about, err := srv.About.Get().Fields("user(emailAddress)").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("drive about: %w", err)
	}
	account := ""
	if about.User != nil {
		account = about.User.EmailAddress
	}
	c.logger.InfoContext(ctx, "drive connected", "account", account, "folder", dest.ID)

	return &session{srv: srv, folderID: dest.ID, logger: c.logger}, nil
}

type session struct {
	srv      *drive.Service
	folderID string
	logger   *slog.Logger
}

func (s *session) Send(ctx context.Context, req model.DeliveryRequest) error {
	f, err := os.Open(req.Path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	name := filepath.Base(req.Path)
	file := &drive.File{Name: name, Description: req.Caption}
	folder := s.folderID
	if req.Destination.ID != "" {
		folder = req.Destination.ID
	}
	if folder != "" {
		file.Parents = []string{folder}
	}

	call := s.srv.Files.Create(file)
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		call = call.Media(f, googleapi.ContentType(ct))
	} else {
		call = call.Media(f)
	}

	created, err := call.Fields("id").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gdrive upload %s: %w", name, err)
	}
	s.logger.DebugContext(ctx, "uploaded artifact", "file_id", created.Id, "name", name)
	return nil
}

func (s *session) Close() error { return nil }
