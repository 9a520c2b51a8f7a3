package mood

import "math/rand/v2"

// Rand is the random source used by the demo generator.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

var demoMoods = []string{"happy", "melancholic", "energetic", "calm", "nostalgic", "romantic"}

var demoEmotions = []string{"thoughtful", "reflective"}

var demoSongs = map[string][]Song{
	"happy": {
		{Title: "Happy", Artist: "Pharrell", Reason: "Feel-good vibe"},
		{Title: "Good as Hell", Artist: "Lizzo", Reason: "Empowering"},
		{Title: "Can’t Stop the Feeling!", Artist: "Justin Timberlake", Reason: "Uplifting"},
		{Title: "Walking on Sunshine", Artist: "Katrina and the Waves", Reason: "Sunny mood"},
		{Title: "Shake It Off", Artist: "Taylor Swift", Reason: "Let-it-go vibe"},
	},
	"melancholic": {
		{Title: "Mad World", Artist: "Gary Jules", Reason: "Haunting emotion"},
		{Title: "Hurt", Artist: "Johnny Cash", Reason: "Emotional depth"},
		{Title: "Skinny Love", Artist: "Bon Iver", Reason: "Soft sadness"},
		{Title: "Black", Artist: "Pearl Jam", Reason: "Raw expression"},
		{Title: "The Night We Met", Artist: "Lord Huron", Reason: "Lost love"},
	},
}

// Demo builds the offline result. Moods without a curated list use the
// happy list. The songs are fresh copies and carry no video identifiers.
func Demo(r Rand) Result {
	if r == nil {
		r = globalRand{}
	}
	m := demoMoods[r.IntN(len(demoMoods))]
	curated, ok := demoSongs[m]
	if !ok {
		curated = demoSongs["happy"]
	}
	songs := make([]Song, len(curated))
	copy(songs, curated)
	emotions := make([]string, len(demoEmotions))
	copy(emotions, demoEmotions)

	return Result{
		Mood:      m,
		Intensity: r.IntN(6) + 5,
		Emotions:  emotions,
		Songs:     songs,
		IsDemo:    true,
	}
}
