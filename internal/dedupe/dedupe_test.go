package dedupe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterministic(t *testing.T) {
	text := "You have received 2000 RWF from Jane Smith."
	assert.Equal(t, Fingerprint(text), Fingerprint(text))
	assert.Len(t, Fingerprint(text), 64)
}

func TestFingerprintNormalizesFormattingDrift(t *testing.T) {
	base := Fingerprint("You have received 2000 RWF from Jane Smith.")
	assert.Equal(t, base, Fingerprint("  you have received 2000 RWF  from Jane Smith. "))
	assert.Equal(t, base, Fingerprint("YOU HAVE RECEIVED 2000 RWF FROM JANE SMITH."))
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	a := Fingerprint("You have received 2000 RWF from Jane Smith.")
	b := Fingerprint("You have received 2001 RWF from Jane Smith.")
	assert.NotEqual(t, a, b)
}

func TestRegisterFirstSeen(t *testing.T) {
	r := NewRegistry()
	fp := Fingerprint("message")

	assert.True(t, r.Register(fp))
	assert.False(t, r.Register(fp))
	assert.False(t, r.Register(fp))
	assert.Equal(t, 1, r.Len())
}

func TestRegisterConcurrentExactlyOneWinner(t *testing.T) {
	r := NewRegistry()
	fp := Fingerprint("raced message")

	const goroutines = 32
	var wg sync.WaitGroup
	wins := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- r.Register(fp)
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, r.Len())
}
