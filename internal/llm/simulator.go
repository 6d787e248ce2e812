package llm

import (
	"context"
	"strings"
)

// Simulator answers with canned roasts picked by keyword matching on the
// directive. It never fails and needs no network.
type Simulator struct{}

// NewSimulator returns the offline backend.
func NewSimulator() *Simulator { return &Simulator{} }

func (*Simulator) Name() string { return ProviderSimulator }

type cannedRoasts struct {
	brutal, medium, light string
}

// simulatedRoasts is matched in order; the first app found in the
// directive wins.
var simulatedRoasts = []struct {
	keyword string
	roasts  cannedRoasts
}{
	{"instagram", cannedRoasts{
		brutal: "Bhai, itna time Instagram pe? 📱 Dusron ki perfect life dekhte dekhte apni life hi bhool gaye! Paisa kamane ke bajaye paisa waste karne mein expert ho gaye ho! 💸 Ab toh Sharma ji ka beta bhi tumse aage nikal gaya hoga! 😂",
		medium: "Instagram pe itna time? 📸 Yaar, real life mein bhi kuch interesting karo, stories mein daalne ke liye! Warna bas dusron ke reels dekhte dekhte apna time reel ho jayega! 😄",
		light:  "Instagram scrolling champion! 🏆 Bas thoda sa real world mein bhi time spend karo, wahan bhi equally entertaining cheezein hoti hain! 😊",
	}},
	{"tiktok", cannedRoasts{
		brutal: "TikTok pe itna time? 🕺 Bhai, actual dance class join kar lete! But nahi, tumhe toh bas 15-second videos dekhne hain! Productivity ka toh funeral ho gaya tumhara! ⚰️ Ab toh TikTok tumhara full-time job ban gaya hai! 😅",
		medium: "TikTok pe itna time? 💃 Koi naya dance seekha ya bas time waste kiya? Real skills develop karo yaar, warna resume mein 'TikTok Expert' likhna padega! 😂",
		light:  "TikTok expert spotted! 🎵 Hope you learned some cool moves! Just remember, real life mein bhi kuch productive karna padega! 😄",
	}},
	{"youtube", cannedRoasts{
		brutal: "YouTube pe itna time? 📺 'How to be productive' videos dekhte dekhte hi unproductive ho gaye! Career goals YouTube shorts mein kho gaye kya? Time to close the app and actually DO something! 💪",
		medium: "YouTube university se PhD kar rahe ho kya? 🎓 Itne videos dekhe hain, ab toh expert ban jana chahiye tha! But practical mein kya kiya? 🤔",
		light:  "YouTube pe research kar rahe the ya entertainment? 📚 Thoda balance maintain karo, knowledge gain karo but time bhi manage karo! 😊",
	}},
	{"reddit", cannedRoasts{
		brutal: "Reddit pe itna time? 🤯 Random strangers ke comments padhte padhte apni life ka comment section hi bhool gaye! Health ke liye Google kar rahe ho ya memes dekh rahe ho? Touch some grass, literally! 🌱",
		medium: "Reddit rabbit hole mein gir gaye? 🐰 Interesting discussions hote hain, but real world mein bhi kuch discuss karo! Friends ke saath bhi time spend karo! 😄",
		light:  "Reddit explorer! 🗺️ Interesting communities explore kar rahe ho, bas real life mein bhi explore karna mat bhoolna! 😊",
	}},
	{"twitter", cannedRoasts{
		brutal: "Twitter pe itna time? 🐦 Hot takes padhte padhte apna social life cold ho gaya! Real friends se baat karne ka time hai ya bas online drama dekhna hai? Get a life beyond the timeline! 📱➡️🌍",
		medium: "Twitter pe news updates ya drama updates dekh rahe the? 📰 Thoda filter karo content, mental peace bhi important hai! Real conversations bhi try karo! 😊",
		light:  "Twitter pe kya trending dekh rahe the? 📈 Hope it was something useful! Social media se thoda break leke social life mein bhi invest karo! 😄",
	}},
}

const genericRoast = "Yaar, screen time dekh ke lagta hai phone tumhara best friend ban gaya hai! 📱 Real world mein bhi kuch time spend karo, wahan bhi interesting cheezein hoti hain! Balance is key! 😉"

// Generate picks a canned roast for the first known app mentioned in
// directive, at brutal or medium intensity when either word appears and
// light otherwise.
func (*Simulator) Generate(ctx context.Context, directive string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lower := strings.ToLower(directive)
	for _, s := range simulatedRoasts {
		if !strings.Contains(lower, s.keyword) {
			continue
		}
		switch {
		case strings.Contains(lower, "brutal"):
			return s.roasts.brutal, nil
		case strings.Contains(lower, "medium"):
			return s.roasts.medium, nil
		default:
			return s.roasts.light, nil
		}
	}
	return genericRoast, nil
}
