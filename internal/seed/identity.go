package seed

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"strings"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	passwordLength = 16
	emailDomain    = "postboard.test"
)

var errPasswordTooShort = errors.New("password length must cover every character class")

var (
	adjectives = []string{"amber", "brisk", "cosmic", "dapper", "eager", "fuzzy", "gentle", "humble", "icy", "jolly", "keen", "lucky", "mellow", "nimble", "quiet", "rustic", "sunny", "tidy", "vivid", "witty"}
	nouns      = []string{"otter", "falcon", "badger", "heron", "lynx", "marmot", "newt", "panda", "quokka", "raven", "salmon", "tapir", "walrus", "yak", "zebra"}
	topics     = []string{"coffee", "mountains", "databases", "gardening", "jazz", "bicycles", "sourdough", "telescopes", "chess", "origami", "rain", "podcasts", "compilers", "tea", "maps"}
	verbs      = []string{"Thoughts on", "Why I love", "A guide to", "Notes about", "Rethinking", "The joy of", "Lessons from", "Getting started with"}
)

// identity is one generated account.
type identity struct {
	DisplayName string
	Email       string
	Password    string
}

func newIdentity(rnd *mrand.Rand) (identity, error) {
	name := fmt.Sprintf("%s%s%04d",
		adjectives[rnd.IntN(len(adjectives))],
		nouns[rnd.IntN(len(nouns))],
		rnd.IntN(10000),
	)
	password, err := generatePassword(passwordLength)
	if err != nil {
		return identity{}, err
	}
	return identity{
		DisplayName: name,
		Email:       name + "@" + emailDomain,
		Password:    password,
	}, nil
}

func newPost(rnd *mrand.Rand) (title, content string) {
	topic := topics[rnd.IntN(len(topics))]
	title = verbs[rnd.IntN(len(verbs))] + " " + topic

	sentences := 1 + rnd.IntN(3)
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "Some %s %s about %s.", adjectives[rnd.IntN(len(adjectives))], nouns[rnd.IntN(len(nouns))], topic)
	}
	return title, b.String()
}

// generatePassword returns a random password with at least one character
// from each class, drawn and shuffled with crypto/rand.
func generatePassword(length int) (string, error) {
	classes := []string{uppercaseChars, lowercaseChars, numberChars, symbolChars}
	if length < len(classes) {
		return "", errPasswordTooShort
	}
	pool := strings.Join(classes, "")

	out := make([]byte, length)
	for i := range out {
		charset := pool
		if i < len(classes) {
			charset = classes[i]
		}
		ch, err := randChar(charset)
		if err != nil {
			return "", err
		}
		out[i] = ch
	}

	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
