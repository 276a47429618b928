package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docopt/docopt-go"
	"golang.org/x/term"

	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
	"github.com/bacilogs/bacilogs/frontend/internal/handler"
	"github.com/bacilogs/bacilogs/frontend/internal/router"
	"github.com/bacilogs/bacilogs/frontend/internal/setup"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/utils"
)

var errNeedLogin = stderrors.New("please log in first: bacilogs login")

type cli struct {
	deps *setup.Dependencies
	h    *handler.Handler
	out  io.Writer
}

func (c *cli) load(ctx context.Context) error {
	return c.h.Load(ctx)
}

func (c *cli) run(ctx context.Context, opts docopt.Opts) error {
	switch {
	case flag(opts, "home"):
		return c.home()
	case flag(opts, "blog"):
		return c.blog(str(opts, "<category>"))
	case flag(opts, "show"):
		return c.show(str(opts, "<id>"), flag(opts, "--html"))
	case flag(opts, "create"):
		return c.create(ctx, str(opts, "<category>"), postForm(opts))
	case flag(opts, "edit"):
		return c.edit(ctx, str(opts, "<id>"), postForm(opts))
	case flag(opts, "delete"):
		return c.remove(ctx, str(opts, "<id>"), flag(opts, "--yes"))
	case flag(opts, "login"):
		return c.login(ctx, str(opts, "<username>"), str(opts, "--next"))
	case flag(opts, "signup"):
		return c.signup(ctx, str(opts, "<email>"))
	case flag(opts, "logout"):
		return c.logout()
	case flag(opts, "whoami"):
		return c.whoami()
	case flag(opts, "dashboard"):
		return c.dashboard()
	case flag(opts, "theme"):
		return c.theme(opts)
	case flag(opts, "watch"):
		return c.watch(ctx)
	}
	return nil
}

func flag(opts docopt.Opts, key string) bool {
	v, _ := opts.Bool(key)
	return v
}

func str(opts docopt.Opts, key string) string {
	v, _ := opts.String(key)
	return v
}

type formArgs struct {
	title, file, image string
	markdown           bool
}

func postForm(opts docopt.Opts) formArgs {
	return formArgs{
		title:    str(opts, "--title"),
		file:     str(opts, "--file"),
		image:    str(opts, "--image"),
		markdown: flag(opts, "--markdown"),
	}
}

func (a formArgs) form() (frontend_domain.PostForm, error) {
	form := frontend_domain.PostForm{
		Title:      a.title,
		TitleImage: a.image,
		Markdown:   a.markdown || strings.EqualFold(filepath.Ext(a.file), ".md"),
	}
	switch a.file {
	case "":
	case "-":
		body, err := io.ReadAll(os.Stdin)
		if err != nil {
			return form, fmt.Errorf("read body: %w", err)
		}
		form.Content = string(body)
	default:
		body, err := os.ReadFile(a.file)
		if err != nil {
			return form, fmt.Errorf("read body: %w", err)
		}
		form.Content = string(body)
	}
	return form, nil
}

// visit applies the route guard the way navigating to path would.
func (c *cli) visit(path string) (router.Route, error) {
	route, decision, _ := c.h.Visit(path)
	if decision.Action == router.Redirect {
		return route, errNeedLogin
	}
	return route, nil
}

// page navigates to path and prints the header with the page theme.
func (c *cli) page(path string) {
	_, _, theme := c.h.Visit(path)
	fmt.Fprintf(c.out, "[theme: %s]\n\n", theme)
}

func (c *cli) result(res frontend_domain.Result) error {
	if res.Error != "" {
		if strings.HasPrefix(res.Redirect, router.LoginPath) {
			return fmt.Errorf("%s\n%w", res.Error, errNeedLogin)
		}
		return stderrors.New(res.Error)
	}
	if strings.HasPrefix(res.Redirect, router.LoginPath) && res.Post == nil {
		return errNeedLogin
	}
	return nil
}

func (c *cli) home() error {
	c.page("/")
	for _, card := range c.h.Home().Blogs {
		fmt.Fprintf(c.out, "%-28s by %-8s %3d posts  (bacilogs blog %s)\n", card.Blog.Name, card.Blog.Author, card.PostCount, card.Blog.Category)
	}
	return nil
}

func (c *cli) blog(category string) error {
	cat, ok := domain.ParseCategory(category)
	if !ok {
		return fmt.Errorf("unknown blog %q: use willow or wishes", category)
	}
	c.page("/blog/" + string(cat))
	data, _ := c.h.Blog(cat)

	fmt.Fprintf(c.out, "%s\n%s\n\n", data.Blog.Name, strings.Repeat("=", len([]rune(data.Blog.Name))))
	if len(data.Posts) == 0 {
		fmt.Fprintln(c.out, "No posts yet. Why not create one?")
	}
	for _, p := range data.Posts {
		fmt.Fprintf(c.out, "%s  [%s]\nBy %s on %s\n%s\n\n", p.Title, p.Id, p.Author, p.Date.Local().Format("2006-01-02"), p.Excerpt)
	}
	if data.CanCreate {
		fmt.Fprintf(c.out, "+ bacilogs create %s --title=... --file=...\n", cat)
	}
	return nil
}

func (c *cli) show(id string, raw bool) error {
	data := c.h.PostDetail(id)
	if !data.Found {
		return stderrors.New("Post not found!")
	}
	c.page("/post/" + id)

	fmt.Fprintf(c.out, "%s\nBy %s on %s\n", data.Post.Title, data.AuthorName, data.Post.CreatedAt.Local().Format("2006-01-02 15:04"))
	if data.Post.TitleImage != "" && !strings.HasPrefix(data.Post.TitleImage, "data:") {
		fmt.Fprintf(c.out, "Image: %s\n", data.Post.TitleImage)
	}
	fmt.Fprintln(c.out)
	if raw {
		fmt.Fprintln(c.out, data.Post.Content)
	} else {
		fmt.Fprintln(c.out, utils.StripTags(data.Post.Content))
	}
	fmt.Fprintf(c.out, "\n<- %s (bacilogs blog %s)\n", data.BackLabel, data.Post.Category)
	if data.CanEdit {
		fmt.Fprintf(c.out, "bacilogs edit %s | bacilogs delete %s\n", id, id)
	}
	return nil
}

func (c *cli) create(ctx context.Context, category string, args formArgs) error {
	cat, ok := domain.ParseCategory(category)
	if !ok {
		return fmt.Errorf("unknown blog %q: use willow or wishes", category)
	}
	if _, err := c.visit("/create-post/" + string(cat)); err != nil {
		return err
	}
	form, err := args.form()
	if err != nil {
		return err
	}
	res := c.h.CreatePost(ctx, cat, form)
	if err := c.result(res); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Published %q (%s)\n", res.Post.Title, res.Post.Id)
	return nil
}

func (c *cli) edit(ctx context.Context, id string, args formArgs) error {
	if _, err := c.visit("/edit-post/" + id); err != nil {
		return err
	}
	if _, res := c.h.EditPage(id); res.Redirect != "" {
		return stderrors.New("Post not found!")
	}
	form, err := args.form()
	if err != nil {
		return err
	}
	res := c.h.UpdatePost(ctx, id, form)
	if err := c.result(res); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Updated %q\n", res.Post.Title)
	return nil
}

func (c *cli) remove(ctx context.Context, id string, yes bool) error {
	c.h.Visit("/post/" + id)
	if !yes {
		fmt.Fprint(c.out, "Are you sure you want to delete this post? [y/N] ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(c.out, "Kept.")
			return nil
		}
	}
	if err := c.result(c.h.DeletePost(ctx, id)); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Post deleted")
	return nil
}

func (c *cli) login(ctx context.Context, username, next string) error {
	reader := bufio.NewReader(os.Stdin)
	username, password, err := c.prompt(reader, "Username", username)
	if err != nil {
		return err
	}

	res := c.h.Login(ctx, domain.Credentials{Username: username, Password: password}, next)
	if res.Error != "" {
		return stderrors.New(res.Error)
	}
	s, _ := c.h.Session.Current()
	fmt.Fprintf(c.out, "Logged in as %s. Next: %s\n", s.Name(), res.Redirect)
	return nil
}

// signup creates a Firebase account and lands on the dashboard.
func (c *cli) signup(ctx context.Context, email string) error {
	reader := bufio.NewReader(os.Stdin)
	email, password, err := c.prompt(reader, "Email", email)
	if err != nil {
		return err
	}

	res := c.h.Signup(ctx, domain.Credentials{Username: email, Password: password})
	if res.Error != "" {
		return stderrors.New(res.Error)
	}
	return c.dashboard()
}

func (c *cli) prompt(reader *bufio.Reader, label, name string) (string, string, error) {
	if name == "" {
		fmt.Fprintf(c.out, "%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
		name = strings.TrimSpace(line)
	}
	password, err := readPassword(reader)
	if err != nil {
		return "", "", err
	}
	return name, password, nil
}

func readPassword(reader *bufio.Reader) (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) logout() error {
	res := c.h.Logout()
	if res.Error != "" {
		return stderrors.New(res.Error)
	}
	fmt.Fprintln(c.out, "Logged out.")
	return nil
}

func (c *cli) whoami() error {
	s, ok := c.h.Session.Current()
	if !ok {
		fmt.Fprintln(c.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(c.out, "%s (%s)", s.Name(), s.Identity)
	if !s.Expires.IsZero() {
		fmt.Fprintf(c.out, ", session valid until %s", s.Expires.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *cli) dashboard() error {
	if _, err := c.visit("/dashboard"); err != nil {
		return err
	}
	data, res := c.h.Dashboard()
	if res.Redirect != "" {
		return errNeedLogin
	}
	fmt.Fprintln(c.out, data.Welcome)
	return nil
}

func (c *cli) theme(opts docopt.Opts) error {
	var (
		theme frontend_domain.Theme
		err   error
	)
	switch {
	case flag(opts, "light"):
		theme, err = c.h.SetTheme(frontend_domain.ThemeLight)
	case flag(opts, "dark"):
		theme, err = c.h.SetTheme(frontend_domain.ThemeDark)
	case flag(opts, "toggle"):
		theme, err = c.h.ToggleTheme()
	default:
		theme = c.h.Prefs.Theme()
	}
	if err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	fmt.Fprintln(c.out, theme)
	return nil
}

// watch prints every pushed snapshot until interrupted.
func (c *cli) watch(ctx context.Context) error {
	if c.deps.Subscriber == nil {
		return stderrors.New("watch needs the api or firestore mode")
	}
	stopObserving := c.h.Posts.Observe(func(posts []domain.Post) {
		line := fmt.Sprintf("%d willow, %d wishes", len(domain.FilterByCategory(posts, domain.Willow)), len(domain.FilterByCategory(posts, domain.Wishes)))
		if len(posts) > 0 {
			line += fmt.Sprintf("; newest: %q", posts[0].Title)
		}
		fmt.Fprintln(c.out, line)
	})
	defer stopObserving()

	if err := c.h.Posts.Subscribe(ctx); err != nil {
		return err
	}
	defer c.h.Posts.Unsubscribe()

	fmt.Fprintln(os.Stderr, "watching for changes, Ctrl+C to stop")
	<-ctx.Done()
	return nil
}
