package domain

import "strings"

// FallbackQuery is used for mood ids outside the fixed set.
const FallbackQuery = "general entertainment content"

type Mood struct {
	ID           string `json:"id"`
	DisplayLabel string `json:"display_label"`
	PlainName    string `json:"plain_name"`
	QueryPhrase  string `json:"query_phrase"`
}

// Moods is the closed set offered by the mood selector, in display order.
var Moods = []Mood{
	{ID: "happy", DisplayLabel: "😊 Happy", PlainName: "Happy", QueryPhrase: "uplifting comedy movies and feel-good series that bring joy and laughter"},
	{ID: "sad", DisplayLabel: "😢 Sad", PlainName: "Sad", QueryPhrase: "heartwarming and comforting movies that provide emotional healing"},
	{ID: "angry", DisplayLabel: "😡 Angry", PlainName: "Angry", QueryPhrase: "action-packed thrillers and intense dramas to release tension"},
	{ID: "relaxed", DisplayLabel: "😴 Relaxed", PlainName: "Relaxed", QueryPhrase: "calm and peaceful documentaries or light-hearted romantic comedies"},
	{ID: "motivated", DisplayLabel: "💪 Motivated", PlainName: "Motivated", QueryPhrase: "inspirational biographical movies and success stories"},
	{ID: "excited", DisplayLabel: "😱 Excited", PlainName: "Excited", QueryPhrase: "exciting adventure movies and suspenseful thrillers"},
	{ID: "heartbroken", DisplayLabel: "💔 Heartbroken", PlainName: "Heartbroken", QueryPhrase: "romantic dramas and emotional love stories for healing"},
	{ID: "thoughtful", DisplayLabel: "🤔 Thoughtful", PlainName: "Thoughtful", QueryPhrase: "thought-provoking documentaries and philosophical dramas"},
	{ID: "playful", DisplayLabel: "😂 Playful", PlainName: "Playful", QueryPhrase: "fun animated movies and comedy series for entertainment"},
	{ID: "peaceful", DisplayLabel: "😌 Peaceful", PlainName: "Peaceful", QueryPhrase: "nature documentaries and meditation-inducing slow-paced films"},
	{ID: "energetic", DisplayLabel: "🔥 Energetic", PlainName: "Energetic", QueryPhrase: "high-energy action movies and fast-paced adventure series"},
	{ID: "curious", DisplayLabel: "🧠 Curious", PlainName: "Curious", QueryPhrase: "educational documentaries and mystery series to satisfy curiosity"},
}

// LookupMood finds a mood by id, display label or plain name (case-insensitive).
func LookupMood(key string) (Mood, bool) {
	key = strings.TrimSpace(key)
	for _, m := range Moods {
		if strings.EqualFold(m.ID, key) || m.DisplayLabel == key || strings.EqualFold(m.PlainName, key) {
			return m, true
		}
	}
	return Mood{}, false
}

// ResolveMood is LookupMood with the fallback query for unknown keys.
func ResolveMood(key string) Mood {
	if m, ok := LookupMood(key); ok {
		return m
	}
	name := strings.TrimSpace(key)
	return Mood{ID: strings.ToLower(name), DisplayLabel: name, PlainName: name, QueryPhrase: FallbackQuery}
}
