// Package ui implements the terminal dashboard using bubbletea's Elm architecture.
//
// The dashboard shows five sections of the library, cycled with tab:
//  1. [TracksSection] : every uploaded track
//  2. [FavoritesSection] : the user's favorites
//  3. [RecentSection] : recently played tracks
//  4. [RecommendedSection] : recommended tracks
//  5. [PlaylistsSection] : the user's playlists
//
// The [Model] never fetches data itself. It subscribes to the slots of a [tasks.DashboardCoordinator] and re-reads
// a snapshot whenever one of them changes. Slot changes and notifications reach the program through a [Bus].
//
// Key bindings: r refreshes, f toggles the selected track as a favorite, a adds it to a playlist, q quits.
package ui
