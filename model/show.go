package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const showTimeLayout = "2006-01-02T15:04:05"

type Show struct {
	Id        int    `json:"id"`
	Movie     Movie  `json:"movie"`
	Hall      Hall   `json:"hall"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type ShowInput struct {
	MovieId   int    `json:"movie_id"`
	HallId    int    `json:"hall_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ShowKey identifies a screening within one listing. It is derived on every
// fetch and never sent to the backend as-is.
type ShowKey struct {
	MovieId int
	HallId  int
	Date    string
	Time    string
}

func (k ShowKey) IsZero() bool {
	return k == ShowKey{}
}

func (k ShowKey) String() string {
	if k.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d|%d|%s|%s", k.MovieId, k.HallId, k.Date, k.Time)
}

// ParseShowKey reads the movieId|hallId|date|time form printed by String.
func ParseShowKey(raw string) (ShowKey, error) {
	parts := strings.Split(strings.TrimSpace(raw), "|")
	if len(parts) != 4 {
		return ShowKey{}, fmt.Errorf("invalid show key %q", raw)
	}
	movieID, err := strconv.Atoi(parts[0])
	if err != nil {
		return ShowKey{}, fmt.Errorf("invalid movie id in show key: %w", err)
	}
	hallID, err := strconv.Atoi(parts[1])
	if err != nil {
		return ShowKey{}, fmt.Errorf("invalid hall id in show key: %w", err)
	}
	if parts[2] == "" || parts[3] == "" {
		return ShowKey{}, errors.New("show key needs a date and a time")
	}
	return ShowKey{MovieId: movieID, HallId: hallID, Date: parts[2], Time: parts[3]}, nil
}

// Key derives the listing key from the movie, hall and start time.
func (s Show) Key() ShowKey {
	date, clock := splitStartTime(s.StartTime)
	return ShowKey{
		MovieId: s.Movie.Id,
		HallId:  s.Hall.Id,
		Date:    date,
		Time:    clock,
	}
}

// Start parses the start time. Backend timestamps may or may not carry a zone.
func (s Show) Start() (time.Time, error) {
	return parseShowTime(s.StartTime)
}

func (s Show) End() (time.Time, error) {
	return parseShowTime(s.EndTime)
}

func splitStartTime(raw string) (string, string) {
	date, clock, found := strings.Cut(strings.TrimSpace(raw), "T")
	if !found {
		return date, ""
	}
	if len(clock) > 5 {
		clock = clock[:5]
	}
	return date, clock
}

func parseShowTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range []string{showTimeLayout, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid show time %q", raw)
}

// IndexShows maps every show in a listing by its key. Later duplicates win.
func IndexShows(shows []Show) map[ShowKey]Show {
	index := make(map[ShowKey]Show, len(shows))
	for _, show := range shows {
		index[show.Key()] = show
	}
	return index
}

// GroupByTitle buckets shows by movie title keeping listing order inside each group.
func GroupByTitle(shows []Show) ([]string, map[string][]Show) {
	var titles []string
	groups := map[string][]Show{}
	for _, show := range shows {
		title := show.Movie.DisplayTitle()
		if _, ok := groups[title]; !ok {
			titles = append(titles, title)
		}
		groups[title] = append(groups[title], show)
	}
	return titles, groups
}
