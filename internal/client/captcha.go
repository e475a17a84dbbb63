package client

import (
	"crypto/rand"
	"io"
	"math/big"
	"strings"
	"sync"
)

const captchaLength = 6

// Captcha is a digit-matching challenge checked on the client only.
type Captcha struct {
	mu     sync.Mutex
	random io.Reader
	code   string
}

// NewCaptcha returns a captcha with a fresh code.
func NewCaptcha() *Captcha {
	c := &Captcha{random: rand.Reader}
	c.Refresh()
	return c
}

// Code is the current challenge.
func (c *Captcha) Code() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code
}

// Refresh draws a new challenge.
func (c *Captcha) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.code = c.generate()
}

// Check compares input with the challenge after SanitizeCaptcha. A wrong
// answer rotates the challenge.
func (c *Captcha) Check(input string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if SanitizeCaptcha(input) == c.code {
		return true
	}
	c.code = c.generate()
	return false
}

func (c *Captcha) generate() string {
	ten := big.NewInt(10)
	var b strings.Builder
	for i := 0; i < captchaLength; i++ {
		n, err := rand.Int(c.random, ten)
		if err != nil {
			// crypto/rand.Reader does not fail on supported platforms
			panic(err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String()
}

// SanitizeCaptcha keeps only digits and caps the answer at the code length.
func SanitizeCaptcha(input string) string {
	var b strings.Builder
	for _, r := range input {
		if b.Len() == captchaLength {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
