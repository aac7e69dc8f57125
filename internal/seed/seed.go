package seed

import (
	"fmt"
	"log"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// Interaction density per post, tuned so feeds and profiles look lived-in
// without making the seeder slow.
const (
	maxLikersPerPost    = 12
	maxCommentersPost   = 4
	maxFollowsPerUser   = 8
	savedPostProportion = 0.15
)

// Seed populates the database with demo users, a follow mesh, posts and
// interactions. Denormalized post counters are maintained alongside the
// like and comment rows so counts match the edges.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	if err := createFollowMesh(f, users); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}

	posts, err := createPosts(f, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	if err := createInteractions(f, users, posts); err != nil {
		return fmt.Errorf("failed to create interactions: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, saves, follows, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a few fixed accounts so developers can log in with a
	// known username.
	wellKnown := []string{"ada", "grace", "test"}
	for _, name := range wellKnown {
		if len(users) >= count {
			break
		}
		u, err := f.CreateUser(func(u *models.User) {
			u.Username = name
			u.Email = fmt.Sprintf("%s@example.com", name)
			u.Bio = "One of the originals."
		})
		if err != nil {
			// A previous seed run may have left these rows; skip quietly.
			continue
		}
		users = append(users, u)
	}

	for i := len(users); i < count; i++ {
		u, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, u)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// createFollowMesh gives every user a handful of outgoing follow edges so
// feeds have content from day one.
func createFollowMesh(f *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}

	for _, follower := range users {
		n := 1 + f.rand.Intn(maxFollowsPerUser)
		seen := map[uint]struct{}{follower.ID: {}}
		for j := 0; j < n; j++ {
			target := users[f.rand.Intn(len(users))]
			if _, dup := seen[target.ID]; dup {
				continue
			}
			seen[target.ID] = struct{}{}
			if err := f.CreateFollow(follower, target); err != nil {
				return err
			}
		}
	}
	return nil
}

func createPosts(f *Factory, users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)

	for i := 0; i < count; i++ {
		author := users[f.rand.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}

	return posts, nil
}

// createInteractions adds likes, comments and saves. Each like and comment
// goes through the factory so the post counters stay in step with the rows.
func createInteractions(f *Factory, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		likers := f.rand.Intn(maxLikersPerPost + 1)
		seen := map[uint]struct{}{}
		for j := 0; j < likers; j++ {
			user := users[f.rand.Intn(len(users))]
			if _, dup := seen[user.ID]; dup {
				continue
			}
			seen[user.ID] = struct{}{}
			if err := f.CreateLike(user, post); err != nil {
				return err
			}
			if f.rand.Float64() < savedPostProportion {
				if err := f.CreateSave(user, post); err != nil {
					return err
				}
			}
		}

		commenters := f.rand.Intn(maxCommentersPost + 1)
		for j := 0; j < commenters; j++ {
			user := users[f.rand.Intn(len(users))]
			if _, err := f.CreateComment(user, post); err != nil {
				return err
			}
		}
	}
	return nil
}
