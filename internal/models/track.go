package models

import "fmt"

type Credentials struct {
	ClientID     string
	ClientSecret string
}

func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Track is the first hit of a track search.
type Track struct {
	Name   string `json:"name" example:"Cry For Me"`
	Artist string `json:"artist" example:"The Weeknd"`
	URL    string `json:"url" example:"https://open.spotify.com/track/..."`
}

func (t Track) String() string {
	return fmt.Sprintf("Song: %s. Artist: %s. Link: %s", t.Name, t.Artist, t.URL)
}
