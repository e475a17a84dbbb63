package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/hongminglow/learnhub-be/internal/client"
)

const maxAttempts = 3

func main() {
	defaultTokenPath, _ := client.DefaultTokenPath()
	serverURL := flag.String("server", "http://localhost:4000", "learnhub API base URL")
	tokenFile := flag.String("token-file", defaultTokenPath, "where to store the session token")
	flag.Parse()

	if *tokenFile == "" {
		fmt.Fprintln(os.Stderr, "-token-file is required")
		os.Exit(2)
	}

	if err := run(*serverURL, *tokenFile, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "login:", err)
		os.Exit(1)
	}
}

func run(serverURL, tokenFile string, in *os.File, out io.Writer) error {
	api := client.NewAPI(serverURL, nil)
	tokens := client.NewFileTokenStore(tokenFile)
	form := client.NewLoginForm(api, tokens)
	defer form.Close()

	reader := bufio.NewReader(in)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := fillForm(form, reader, in, out); err != nil {
			return err
		}
		if form.CaptchaRequired() {
			if err := solveCaptcha(form, reader, out); err != nil {
				return err
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		res, err := form.Submit(ctx)
		cancel()
		if err == nil {
			fmt.Fprintf(out, "Logged in as %s (id %d). Token saved to %s\n", res.User.Phone, res.User.ID, tokens.Path())
			return printMe(api, res.Token, out)
		}

		var apiErr *client.APIError
		if !errors.As(err, &apiErr) {
			return err
		}
		fmt.Fprintf(out, "Login failed: %s (%d/%d)\n", apiErr.Message, attempt, maxAttempts)
	}
	return fmt.Errorf("giving up after %d attempts", maxAttempts)
}

func fillForm(form *client.LoginForm, reader *bufio.Reader, in *os.File, out io.Writer) error {
	for {
		phone, err := prompt(reader, out, "Phone")
		if err != nil {
			return err
		}
		password, err := readPassword(reader, in, out)
		if err != nil {
			return err
		}
		form.SetPhone(phone)
		form.SetPassword(password)
		form.Flush()

		if form.CanSubmit() {
			return nil
		}
		if !form.Phone().Valid {
			fmt.Fprintln(out, client.PhoneHint)
		}
		if !form.Password().Valid {
			fmt.Fprintln(out, client.PasswordHint)
		}
	}
}

func solveCaptcha(form *client.LoginForm, reader *bufio.Reader, out io.Writer) error {
	for {
		fmt.Fprintf(out, "Verification code: %s\n", form.CaptchaCode())
		answer, err := prompt(reader, out, "Type the code")
		if err != nil {
			return err
		}
		if form.SolveCaptcha(answer) {
			return nil
		}
		fmt.Fprintln(out, "Wrong code, here is a new one.")
	}
}

func printMe(api *client.API, token string, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	me, err := api.Me(ctx, token)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	fmt.Fprintf(out, "Account created %s\n", me.CreatedAt.Format(time.RFC1123))
	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo on a terminal and falls back to a plain
// line when input is piped.
func readPassword(reader *bufio.Reader, in *os.File, out io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return prompt(reader, out, "Password")
	}
	fmt.Fprint(out, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
