package models

import "time"

// User is a registered account. Blogs holds the blogs the user owns.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Name         string    `json:"name" gorm:"type:varchar(255)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // never serialized
	Blogs        []Blog    `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// OwnedBlogView is a blog as listed under its owner.
type OwnedBlogView struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

// UserView is the public representation of a user.
type UserView struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Blogs    []OwnedBlogView `json:"blogs"`
}

// View projects the user onto its public representation.
func (u *User) View() UserView {
	blogs := make([]OwnedBlogView, 0, len(u.Blogs))
	for _, b := range u.Blogs {
		blogs = append(blogs, OwnedBlogView{ID: b.ID, Title: b.Title, Author: b.Author, URL: b.URL, Likes: b.Likes})
	}
	return UserView{ID: u.ID, Username: u.Username, Name: u.Name, Blogs: blogs}
}
