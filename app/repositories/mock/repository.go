package mock

import (
	"sync"

	"blogdemo/app/models"
)

// ContentStore is a ContentStore that records how often it is read.
type ContentStore struct {
	posts []models.Post
	mutex sync.Mutex
	lists int
	finds []int
}

func NewContentStore(posts []models.Post) *ContentStore {
	return &ContentStore{posts: posts}
}

func (m *ContentStore) List() []models.Post {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.lists++
	posts := make([]models.Post, len(m.posts))
	copy(posts, m.posts)
	return posts
}

func (m *ContentStore) Find(id int) (models.Post, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.finds = append(m.finds, id)
	for _, post := range m.posts {
		if post.ID == id {
			return post, true
		}
	}
	return models.Post{}, false
}

// Calls returns the number of List calls and the ids passed to Find.
func (m *ContentStore) Calls() (int, []int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	finds := make([]int, len(m.finds))
	copy(finds, m.finds)
	return m.lists, finds
}
