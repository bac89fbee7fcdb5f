package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RoyDesCraft/chiche-client/internal/apiclient"
	"github.com/RoyDesCraft/chiche-client/internal/cmdlog"
	"github.com/RoyDesCraft/chiche-client/internal/config"
	"github.com/RoyDesCraft/chiche-client/internal/feed"
	"github.com/RoyDesCraft/chiche-client/internal/loop"
	"github.com/RoyDesCraft/chiche-client/internal/metrics"
	"github.com/RoyDesCraft/chiche-client/internal/model"
	"github.com/RoyDesCraft/chiche-client/internal/render"
	"github.com/RoyDesCraft/chiche-client/internal/router"
	"github.com/RoyDesCraft/chiche-client/internal/seed"
	"github.com/RoyDesCraft/chiche-client/internal/store/localdb"
	"github.com/RoyDesCraft/chiche-client/internal/theme"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "signup":
		cmdSignup()
	case "login":
		cmdLogin()
	case "whoami":
		cmdWhoami()
	case "demo":
		cmdDemo()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: chiche <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init      Create a config file at ./chiche.yaml")
	fmt.Println("  signup    Create an account on the backend")
	fmt.Println("  login     Log in and persist the session")
	fmt.Println("  whoami    Show the restored session, if any")
	fmt.Println("  demo      Run a scripted session against sample data")
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./chiche.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	if err := config.Save(*path, config.Default()); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

func mustOpen(cfgPath string) (config.Config, *feed.App) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		cfg = config.Default()
		cfg.ResolveEnv()
	}
	db, err := localdb.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	metrics.StartServer(cfg.Metrics.Addr)
	return cfg, feed.NewApp(db, apiclient.NewHTTPClient(cfg.Backend.BaseURL))
}

func cmdSignup() {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	cfgPath := fs.String("config", "./chiche.yaml", "config path")
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	username := fs.String("username", "", "handle, without the @")
	_ = fs.Parse(os.Args[2:])
	_, app := mustOpen(*cfgPath)
	defer app.DB.Close()
	password := readPassword()
	err := cmdlog.Run("signup", func() error {
		return app.SignUp(context.Background(), *email, password, *name, *username)
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	fmt.Println("Account created successfully! Please log in.")
}

func cmdLogin() {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	cfgPath := fs.String("config", "./chiche.yaml", "config path")
	email := fs.String("email", "", "account email")
	_ = fs.Parse(os.Args[2:])
	cfg, app := mustOpen(*cfgPath)
	defer app.DB.Close()
	id := *email
	if id == "" {
		id = cfg.Account.Email
	}
	password := readPassword()
	var user model.User
	err := cmdlog.Run("login", func() error {
		u, err := app.LogIn(context.Background(), id, password)
		user = u
		return err
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Username)
}

func cmdWhoami() {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	cfgPath := fs.String("config", "./chiche.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	_, app := mustOpen(*cfgPath)
	defer app.DB.Close()
	u, ok := app.RestoreSession(context.Background())
	if !ok {
		fmt.Println("No saved session.")
		return
	}
	fmt.Printf("%s (%s)\n", u.Name, u.Username)
	if u.Bio != "" {
		fmt.Println(u.Bio)
	}
	fmt.Printf("following %d · followers %d\n", len(u.Following), len(u.Followers))
}

// cmdDemo drives the whole core against the sample feed: guest login,
// composing, liking, voting, messaging with a delayed auto-reply, and
// router navigation, printing projections as it goes.
func cmdDemo() {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	dbPath := fs.String("db", ":memory:", "local storage path")
	_ = fs.Parse(os.Args[2:])

	theme.PrintBanner()
	db, err := localdb.Open(*dbPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	app := feed.NewApp(db, apiclient.NewHTTPClient(config.Default().Backend.BaseURL))
	seed.Load(app.Store)

	lp := loop.New()
	rt := router.New(app.Store, lp, 300*time.Millisecond, router.Hooks{
		MarkAllRead: func() { _ = app.MarkAllNotificationsRead(ctx) },
	})
	rt.Start("/home")

	// unauthenticated interaction bounces to login
	if _, err := app.ToggleLike(ctx, "1"); err == feed.ErrAuthRequired {
		fmt.Println("-> like before login: redirected to login")
		rt.Navigate(router.View{Kind: router.KindLogin})
	}

	app.ToggleGuestMode(ctx, true)
	me := app.Session.Handle()
	fmt.Println("-> guest mode on as", me)
	seed.LoadConversation(app.Store, me)
	rt.Navigate(router.View{Kind: router.KindHome})

	if p, err := app.CreatePost(ctx, "Hello from the terminal client!", model.Tags{Topic: "tech"}, nil); err == nil {
		fmt.Println("-> posted", p.ID)
	}
	if p, err := app.ToggleLike(ctx, "1"); err == nil {
		fmt.Printf("-> liked %s (likes now %d)\n", p.ID, p.LikeCount)
	}
	if _, err := app.AddComment(ctx, "2", "The composer shortcuts, easily."); err == nil {
		fmt.Println("-> commented on 2")
	}
	if poll, err := app.VotePoll(ctx, "5", 1); err == nil {
		fmt.Printf("-> voted; totals %d\n", poll.TotalVotes)
	}
	if _, err := app.VotePoll(ctx, "5", 0); err != nil {
		fmt.Println("-> second vote rejected:", err)
	}
	if on, err := app.ToggleFollow(ctx, "@sarahchen"); err == nil && on {
		fmt.Println("-> now following @sarahchen")
	}

	if msg := rt.Navigate(router.View{Kind: router.KindPostDetail, Arg: "42"}); msg != "" {
		fmt.Println("-> /post/42:", msg)
	}

	rt.Navigate(router.View{Kind: router.KindConversation, Arg: "@sarahchen"})
	if _, err := app.SendMessage("@sarahchen", "Yes! Just joined the beta.", ""); err == nil {
		fmt.Println("-> message sent")
	}
	lp.After(150*time.Millisecond, func() {
		if rt.Current() == (router.View{Kind: router.KindConversation, Arg: "@sarahchen"}) {
			app.ReceiveMessage("@sarahchen", "Welcome aboard 🎉", "")
			_ = app.MarkConversationRead("@sarahchen")
		}
	})

	runCtx, cancel := context.WithTimeout(ctx, 700*time.Millisecond)
	defer cancel()
	lp.Run(runCtx)

	fmt.Println()
	printFeed(app)
	printBadges(app)
	rt.Navigate(router.View{Kind: router.KindNotifications})
	runCtx2, cancel2 := context.WithTimeout(ctx, 600*time.Millisecond)
	defer cancel2()
	lp.Run(runCtx2)
	printBadges(app)

	app.LogOut(ctx)
	rt.Navigate(router.View{Kind: router.KindHome})
	fmt.Println("-> logged out, back on", rt.Path())
}

func printFeed(app *feed.App) {
	for _, it := range render.Feed(app.Store.Posts()) {
		line := fmt.Sprintf("%s %s · %s · ♥%d ⟳%d 💬%d", it.AuthorHandle, it.CreatedLabel, it.Text, it.Likes, it.Reposts, it.Comments)
		if len(it.TagChips) > 0 {
			line += " [" + strings.Join(it.TagChips, ", ") + "]"
		}
		fmt.Println(line)
		if pv := render.PollFor(app.Store.Post(it.ID), app.Session.Handle(), app.Session.IsAuthenticated()); pv != nil && pv.ShowResults {
			for _, row := range pv.Options {
				fmt.Printf("    %-14s %3d%% (%d)\n", row.Text, row.Percent, row.Votes)
			}
		}
	}
}

func printBadges(app *feed.App) {
	b := render.BadgesFor(app.Store)
	fmt.Printf("badges: notifications=%d messages=%d\n", b.Notifications, b.Messages)
}

func readPassword() string {
	fmt.Fprint(os.Stderr, "Password: ")
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		os.Exit(1)
	}
	return strings.TrimSpace(sc.Text())
}
