// ABOUTME: Terminal renderers implementing the store's consumer interfaces
// ABOUTME: Prints films, channels, shows, and initials with color formatting

package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/hkern/mediathek/internal/models"
)

// noticeNotifier surfaces contained storage errors as a single yellow
// notice instead of failing the command.
type noticeNotifier struct{}

func (noticeNotifier) StorageError(err error) {
	color.Yellow("Catalog problem: %v", err)
}

// filmPrinter renders film query results, one line per film with an
// optional URL line below when --urls is set.
type filmPrinter struct {
	preferHD     bool
	showURLs     bool
	showShows    bool
	showChannels bool
	count        int
}

func (p *filmPrinter) Begin(showShows, showChannels bool) {
	p.showShows = showShows
	p.showChannels = showChannels
	p.count = 0
}

func (p *filmPrinter) Add(f *models.Film) {
	p.count++

	faint := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Printf("%s ", faint(fmt.Sprintf("%8d", f.ID)))

	if p.showShows && f.Show != "" {
		fmt.Printf("%s: ", cyan(f.Show))
	}
	fmt.Print(f.Title)
	if p.showChannels && f.Channel != "" {
		fmt.Printf(" %s", faint("["+f.Channel+"]"))
	}

	if f.Aired != nil {
		fmt.Printf(" %s", faint(f.Aired.Format("02.01.2006 15:04")))
	}
	if f.Duration != nil {
		fmt.Printf(" %s", faint(durationString(*f.Duration)))
	}
	fmt.Println()

	if p.showURLs {
		if url := f.BestVideoURL(p.preferHD); url != "" {
			fmt.Printf("         %s\n", faint(url))
		}
	}
}

func (p *filmPrinter) End() {
	if p.count == 0 {
		fmt.Println("No films found")
	}
}

// channelPrinter renders the channel listing.
type channelPrinter struct {
	count int
}

func (p *channelPrinter) Begin() { p.count = 0 }

func (p *channelPrinter) Add(c *models.Channel) {
	p.count++
	faint := color.New(color.Faint).SprintFunc()
	fmt.Printf("%s %s\n", faint(fmt.Sprintf("%4d", c.ID)), c.Name)
}

func (p *channelPrinter) End() {
	if p.count == 0 {
		fmt.Println("No channels found. Run 'mediathek update' first.")
	}
}

// showPrinter renders show listings, annotating grouped rows with the
// channels they span.
type showPrinter struct {
	count int
}

func (p *showPrinter) Begin(channelID int64) { p.count = 0 }

func (p *showPrinter) Add(s *models.ShowListing) {
	p.count++
	faint := color.New(color.Faint).SprintFunc()
	fmt.Printf("%s %s", faint(s.IDs), s.Name)
	if s.Grouped() {
		fmt.Printf(" %s", faint("["+s.ChannelNames+"]"))
	}
	fmt.Println()
}

func (p *showPrinter) End() {
	if p.count == 0 {
		fmt.Println("No shows found")
	}
}

// initialPrinter renders the first-letter distribution of show names.
type initialPrinter struct {
	count int
}

func (p *initialPrinter) Begin(channelID int64) { p.count = 0 }

func (p *initialPrinter) Add(initial string, count int) {
	p.count++
	faint := color.New(color.Faint).SprintFunc()
	label := initial
	if label == "" {
		label = "#"
	}
	fmt.Printf("  %s %s\n", label, faint(fmt.Sprintf("(%d)", count)))
}

func (p *initialPrinter) End() {
	if p.count == 0 {
		fmt.Println("No shows found")
	}
}

// durationString formats a duration in seconds as H:MM:SS.
func durationString(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
