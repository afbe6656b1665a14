package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"studyhub/internal/config"
	"studyhub/internal/database"
	"studyhub/internal/logger"
	"studyhub/internal/model"
	"studyhub/internal/repository/postgres"
	"studyhub/internal/service"
	"studyhub/internal/session"
	"studyhub/internal/storage"
)

const usage = `usage: catalog <command> [arguments]

commands:
  search <query>                      global search, newest first
  browse <subject> <semester>         list a subject's materials by type
  watch [subject semester]            live search; every stdin line is the current input
  token <email> [ttl]                 issue an uploader bearer token (default ttl 24h)
  upload -token T -subject S -semester N -type notes|papers|slides [-description D] <files...>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.Location())
	ctx := context.Background()

	cmd, args := os.Args[1], os.Args[2:]
	if cmd == "token" {
		runToken(cfg, args)
		return
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer db.Close()

	switch cmd {
	case "search":
		if len(args) != 1 {
			fail("search takes exactly one query")
		}
		st := catalog(db, cfg, log).Search(ctx, args[0])
		printSearch(os.Stdout, st)
	case "browse":
		if len(args) != 2 {
			fail("browse takes a subject and a semester")
		}
		st := catalog(db, cfg, log).Browse(ctx, args[0], args[1])
		printBrowse(os.Stdout, st)
	case "watch":
		runWatch(ctx, catalog(db, cfg, log), cfg, args)
	case "upload":
		runUpload(ctx, db, cfg, log, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func catalog(db *sql.DB, cfg *config.AppConfig, log zerolog.Logger) *service.CatalogService {
	return service.NewCatalogService(postgres.NewResourcePostgres(db), nil, cfg.Search.Limit, log)
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(2)
}

func runToken(cfg *config.AppConfig, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fail("token takes an email and an optional ttl")
	}
	ttl := 24 * time.Hour
	if len(args) == 2 {
		d, err := time.ParseDuration(args[1])
		if err != nil {
			fail("invalid ttl: " + err.Error())
		}
		ttl = d
	}

	v, err := session.NewVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		fail("JWT_SECRET is not set")
	}
	token, err := v.Issue(args[0], ttl)
	if err != nil {
		fail(err.Error())
	}
	fmt.Println(token)
}

func runWatch(ctx context.Context, svc service.Searcher, cfg *config.AppConfig, args []string) {
	var opts []service.LiveSearchOption
	switch len(args) {
	case 0:
	case 2:
		opts = append(opts, service.WithScope(args[0], args[1]))
	default:
		fail("watch takes no arguments or a subject and a semester")
	}
	opts = append(opts, service.WithOnChange(func(st service.SearchState) {
		if st.Loading {
			fmt.Printf("searching %q...\n", st.Query)
			return
		}
		printSearch(os.Stdout, st)
	}))

	ls := service.NewLiveSearch(ctx, svc, cfg.Search.Debounce(), opts...)
	defer ls.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		ls.Input(scanner.Text())
	}
	ls.Flush(ctx)
}

func runUpload(ctx context.Context, db *sql.DB, cfg *config.AppConfig, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	token := fs.String("token", "", "uploader bearer token")
	subject := fs.String("subject", "", "subject code")
	semester := fs.String("semester", "", "semester")
	kind := fs.String("type", "", "notes, papers or slides")
	description := fs.String("description", "", "shared description")
	_ = fs.Parse(args)

	v, err := session.NewVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		fail("JWT_SECRET is not set")
	}
	if *token != "" {
		id, err := v.Verify(*token)
		if err != nil {
			fail("invalid token: " + err.Error())
		}
		ctx = session.WithIdentity(ctx, id)
	}

	store, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	repo := postgres.NewResourcePostgres(db)
	gate := session.NewGate(session.ContextProvider{}, cfg.Auth.UploaderEmail)
	form := service.NewUploadForm(service.NewUploadService(store, repo, gate, nil, log))

	form.Subject = *subject
	form.Semester = *semester
	form.Type = model.ResourceType(*kind)
	form.Description = *description

	var files []service.UploadFile
	for _, path := range fs.Args() {
		files = append(files, localFile(path))
	}
	form.Select(files...)

	res, err := form.Submit(ctx, func(p service.Progress) {
		fmt.Printf("\r[%3.0f%%] file %d/%d", p.Percent, p.Current, p.Total)
	})
	fmt.Println()
	if err != nil {
		fail(err.Error())
	}

	fmt.Printf("Uploaded %d of %d file(s).\n", res.Succeeded, res.Total)
	for _, f := range res.Failures {
		fmt.Println("  failed:", f.String())
	}
	if res.BrowseURL != "" {
		fmt.Println("Browse:", res.BrowseURL)
	}
}

func localFile(path string) service.UploadFile {
	size := int64(-1)
	if fi, err := os.Stat(path); err == nil {
		size = fi.Size()
	}
	return service.UploadFile{
		Name:        filepath.Base(path),
		Size:        size,
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Open: func() (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

func printSearch(w io.Writer, st service.SearchState) {
	switch st.Status {
	case service.StatusIdle:
		fmt.Fprintln(w, "Type to search.")
		return
	case service.StatusError:
		fmt.Fprintln(w, "Error:", st.Error)
		return
	}
	if len(st.Results) == 0 {
		fmt.Fprintf(w, "No results for %q.\n", st.Query)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tSUBJECT\tSEMESTER\tTYPE\tFORMAT")
	for _, r := range st.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Title, r.Subject, r.Semester, r.Type.Label(), r.Extension())
	}
	tw.Flush()
}

func printBrowse(w io.Writer, st service.BrowseState) {
	if st.Status == service.StatusError {
		fmt.Fprintln(w, "Error:", st.Error)
		return
	}
	fmt.Fprintf(w, "%s, semester %s\n", st.SubjectName, st.Semester)
	for _, g := range []struct {
		t     model.ResourceType
		items []model.Resource
	}{
		{model.TypeNotes, st.Groups.Notes},
		{model.TypePapers, st.Groups.Papers},
		{model.TypeSlides, st.Groups.Slides},
	} {
		fmt.Fprintf(w, "\n%s (%d)\n", g.t.Label(), len(g.items))
		for _, r := range g.items {
			fmt.Fprintf(w, "  %-40s %-5s %s\n", r.Title, r.Extension(), r.URL)
		}
	}
}
