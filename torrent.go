package ehparse

// Torrent is one entry of a gallery's torrent list.
type Torrent struct {
	Posted    string `json:"posted"`
	Size      string `json:"size"`
	Seeds     int32  `json:"seeds"`
	Peers     int32  `json:"peers"`
	Downloads int32  `json:"downloads"`
	URL       string `json:"url"`
	Name      string `json:"name"`
}

// TorrentResult is the record extracted from a torrent list page.
type TorrentResult []Torrent
