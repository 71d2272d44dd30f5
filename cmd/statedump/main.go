// Command statedump prints the locally persisted session state for
// debugging. The bearer credential is only reported by length.
package main

import (
	"flag"
	"fmt"
	"log"

	"potluck/internal/storage"
)

func main() {
	stateFile := flag.String("state", "potluck.db", "Path to the state file")
	keyFile := flag.String("key", "potluck.key", "Path to the state key file")
	flag.Parse()

	store, err := storage.NewBboltStore(*stateFile, *keyFile)
	if err != nil {
		log.Fatalf("statedump: %v", err)
	}
	defer func() { _ = store.Close() }()

	rec, err := store.LoadSession()
	if err != nil {
		log.Fatalf("statedump: %v", err)
	}

	if rec.Credential == "" && rec.Identity == nil {
		fmt.Println("no session stored")
		return
	}

	fmt.Printf("credential:          %d bytes (sealed at rest)\n", len(rec.Credential))
	fmt.Printf("onboarding complete: %v\n", rec.OnboardingComplete)
	if rec.Identity != nil {
		fmt.Printf("identity:            @%s (%s)\n", rec.Identity.Username, rec.Identity.ID)
		fmt.Printf("  full name: %s\n", rec.Identity.FullName)
		fmt.Printf("  bio:       %q\n", rec.Identity.Bio)
		fmt.Printf("  avatar:    %s\n", rec.Identity.ProfilePicture)
		fmt.Printf("  friends:   %d\n", len(rec.Identity.Friends))
	}
}
