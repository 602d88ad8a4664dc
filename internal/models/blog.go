package models

import "time"

// Blog is a bookmarked blog entry owned by the user who created it.
type Blog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Author    string    `json:"author" gorm:"type:varchar(255)"`
	URL       string    `json:"url" gorm:"type:varchar(2048);not null"`
	Likes     int       `json:"likes" gorm:"not null"`
	UserID    string    `json:"-" gorm:"type:varchar(36);index;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// OwnerView is the projection of a blog's owner exposed next to the blog.
type OwnerView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// BlogView is the public representation of a blog.
type BlogView struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Author string     `json:"author"`
	URL    string     `json:"url"`
	Likes  int        `json:"likes"`
	User   *OwnerView `json:"user,omitempty"`
}

// View projects the blog onto its public representation. The owner is only
// included when it was loaded alongside the blog.
func (b *Blog) View() BlogView {
	view := BlogView{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		URL:    b.URL,
		Likes:  b.Likes,
	}
	if b.User != nil {
		view.User = &OwnerView{ID: b.User.ID, Username: b.User.Username, Name: b.User.Name}
	}
	return view
}

// BlogViews projects a list of blogs.
func BlogViews(blogs []Blog) []BlogView {
	views := make([]BlogView, 0, len(blogs))
	for i := range blogs {
		views = append(views, blogs[i].View())
	}
	return views
}
