// internal/app/store/kids/kidstore.go
package kidstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kartsforkids/pitlane/internal/app/system/htmlsanitize"
	"github.com/kartsforkids/pitlane/internal/app/system/inputval"
	"github.com/kartsforkids/pitlane/internal/app/system/normalize"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

var (
	// ErrDuplicateRacerNumber is returned when another kid already holds the racer number.
	ErrDuplicateRacerNumber = errors.New("a kid with this racer number already exists")
	// ErrInvalid wraps field validation failures; inspect Fields for details.
	ErrInvalid = errors.New("kid record failed validation")
)

// ValidationError carries per-field messages from a rejected write.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return ErrInvalid.Error() }
func (e *ValidationError) Unwrap() error { return ErrInvalid }

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("kids")}
}

// Prepare normalizes a candidate kid record into its canonical stored
// shape:
//   - names and parent contact fields are trimmed, phones reduced to digits
//   - birth date is re-serialized to YYYY-MM-DD when it parses
//   - comments are sanitized
//   - the legacy singular ParentID is merged into ParentIDs (append if
//     absent) and both are kept in sync
//   - an entirely blank SecondParent block becomes nil so it is omitted
//     from storage
func Prepare(k models.Kid) models.Kid {
	k.FirstName = normalize.Name(k.FirstName)
	k.LastName = normalize.Name(k.LastName)
	k.FullNameCI = text.Fold(k.FirstName + " " + k.LastName)
	if canonical, ok := normalize.BirthDate(k.BirthDate); ok {
		k.BirthDate = canonical
	}
	k.Address = normalize.Name(k.Address)
	k.CapabilityNotes = normalize.Name(k.CapabilityNotes)
	k.AnnouncerNotes = normalize.Name(k.AnnouncerNotes)

	k.Parent = prepareParent(k.Parent)
	if k.SecondParent != nil {
		second := prepareParent(*k.SecondParent)
		if second.Empty() {
			k.SecondParent = nil
		} else {
			k.SecondParent = &second
		}
	}

	k.Comments.Parent = htmlsanitize.Sanitize(k.Comments.Parent)
	k.Comments.Organization = htmlsanitize.Sanitize(k.Comments.Organization)
	k.Comments.TeamLeader = htmlsanitize.Sanitize(k.Comments.TeamLeader)
	k.Comments.FamilyContact = htmlsanitize.Sanitize(k.Comments.FamilyContact)

	k.ParentIDs = mergeParentRefs(k.ParentID, k.ParentIDs)
	if k.ParentID == "" && len(k.ParentIDs) > 0 {
		k.ParentID = k.ParentIDs[0]
	}

	if k.FormStatus == "" {
		k.FormStatus = models.FormStatusPending
	}
	return k
}

func prepareParent(p models.ParentInfo) models.ParentInfo {
	p.FullName = normalize.Name(p.FullName)
	p.Email = normalize.Email(p.Email)
	p.Phone = normalize.Digits(p.Phone)
	p.GrandparentName = normalize.Name(p.GrandparentName)
	p.GrandparentPhone = normalize.Digits(p.GrandparentPhone)
	return p
}

// mergeParentRefs folds the legacy singular reference into the list,
// appending only when absent. Order of existing entries is preserved.
func mergeParentRefs(legacy string, ids []string) []string {
	out := make([]string, 0, len(ids)+1)
	seen := map[string]struct{}{}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if legacy != "" {
		if _, dup := seen[legacy]; !dup {
			out = append(out, legacy)
		}
	}
	return out
}

// toDoc converts a prepared kid into a pruned bson document. Empty
// strings and empty nested documents never reach storage, so a blank
// form field can never clobber stored data.
func toDoc(k models.Kid) bson.M {
	doc := bson.M{
		"_id":                k.ID,
		"racer_number":       k.RacerNumber,
		"first_name":         k.FirstName,
		"last_name":          k.LastName,
		"full_name_ci":       k.FullNameCI,
		"birth_date":         k.BirthDate,
		"address":            k.Address,
		"capability_notes":   k.CapabilityNotes,
		"announcer_notes":    k.AnnouncerNotes,
		"photo_key":          k.PhotoKey,
		"parent":             parentDoc(k.Parent),
		"parent_id":          k.ParentID,
		"parent_ids":         k.ParentIDs,
		"form_status":        k.FormStatus,
		"declaration_signed": k.DeclarationSigned,
		"comments": bson.M{
			"parent":         k.Comments.Parent,
			"organization":   k.Comments.Organization,
			"team_leader":    k.Comments.TeamLeader,
			"family_contact": k.Comments.FamilyContact,
		},
		"created_at": k.CreatedAt,
		"updated_at": k.UpdatedAt,
	}
	if k.SecondParent != nil {
		doc["second_parent"] = parentDoc(*k.SecondParent)
	}
	if k.TeamID != nil {
		doc["team_id"] = k.TeamID
	}
	if k.InstructorID != nil {
		doc["instructor_id"] = k.InstructorID
	}
	if k.ParentIDs == nil {
		doc["parent_ids"] = []string{}
	}
	return normalize.PruneEmpty(doc)
}

func parentDoc(p models.ParentInfo) bson.M {
	return bson.M{
		"full_name":         p.FullName,
		"email":             p.Email,
		"phone":             p.Phone,
		"grandparent_name":  p.GrandparentName,
		"grandparent_phone": p.GrandparentPhone,
	}
}

// Create inserts a new kid record.
func (s *Store) Create(ctx context.Context, k models.Kid) (models.Kid, error) {
	k = Prepare(k)
	if errs := inputval.ValidateKid(k); len(errs) > 0 {
		return models.Kid{}, &ValidationError{Fields: errs}
	}

	k.ID = primitive.NewObjectID()
	now := time.Now()
	k.CreatedAt = now
	k.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, toDoc(k)); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Kid{}, ErrDuplicateRacerNumber
		}
		return models.Kid{}, err
	}
	return k, nil
}

// Update replaces a kid record. CreatedAt is preserved from the stored
// document; UpdatedAt is always stamped.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, k models.Kid) (models.Kid, error) {
	k = Prepare(k)
	if errs := inputval.ValidateKid(k); len(errs) > 0 {
		return models.Kid{}, &ValidationError{Fields: errs}
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Kid{}, err
	}

	k.ID = id
	k.CreatedAt = existing.CreatedAt
	k.UpdatedAt = time.Now()
	if k.PhotoKey == "" {
		k.PhotoKey = existing.PhotoKey
	}

	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": id}, toDoc(k)); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Kid{}, ErrDuplicateRacerNumber
		}
		return models.Kid{}, err
	}
	return k, nil
}

// GetByID loads a kid by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Kid, error) {
	var k models.Kid
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&k); err != nil {
		return nil, err
	}
	return &k, nil
}

// GetByRacerNumber loads a kid by racer number.
func (s *Store) GetByRacerNumber(ctx context.Context, n int) (*models.Kid, error) {
	var k models.Kid
	if err := s.c.FindOne(ctx, bson.M{"racer_number": n}).Decode(&k); err != nil {
		return nil, err
	}
	return &k, nil
}

// Delete removes a kid record. Returns the number of documents deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Assign moves a kid onto a team. The instructor reference is carried
// from the team so roster views need no join; passing nil for both
// clears the assignment.
func (s *Store) Assign(ctx context.Context, id primitive.ObjectID, teamID, instructorID *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now()}}
	if teamID != nil {
		update["$set"].(bson.M)["team_id"] = teamID
		if instructorID != nil {
			update["$set"].(bson.M)["instructor_id"] = instructorID
		}
	} else {
		update["$unset"] = bson.M{"team_id": "", "instructor_id": ""}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UnassignTeam clears the team and instructor references on every kid
// assigned to the team. Used when a team is deleted. Returns the number
// of kids touched.
func (s *Store) UnassignTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx, bson.M{"team_id": teamID}, bson.M{
		"$set":   bson.M{"updated_at": time.Now()},
		"$unset": bson.M{"team_id": "", "instructor_id": ""},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetPhotoKey records where the racer photo is stored. An empty key
// clears the reference.
func (s *Store) SetPhotoKey(ctx context.Context, id primitive.ObjectID, key string) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now()}}
	if key == "" {
		update["$unset"] = bson.M{"photo_key": ""}
	} else {
		update["$set"].(bson.M)["photo_key"] = key
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// SetFormStatus moves a kid's paperwork status.
func (s *Store) SetFormStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.ValidFormStatus(status) {
		return &ValidationError{Fields: map[string]string{"form_status": "form status must be one of pending, completed, needs_review, cancelled"}}
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"form_status": status, "updated_at": time.Now()}})
	return err
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	TeamID     *primitive.ObjectID
	ParentID   string // user id hex held in parent_ids
	FormStatus string
	Search     string // folded substring match on full name
	Limit      int64
}

// List returns kids sorted by folded full name.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.Kid, error) {
	query := bson.M{}
	if filter.TeamID != nil {
		query["team_id"] = filter.TeamID
	}
	if filter.ParentID != "" {
		query["parent_ids"] = filter.ParentID
	}
	if filter.FormStatus != "" {
		query["form_status"] = filter.FormStatus
	}
	if filter.Search != "" {
		query["full_name_ci"] = bson.M{"$regex": text.Fold(filter.Search)}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var kids []models.Kid
	if err := cur.All(ctx, &kids); err != nil {
		return nil, err
	}
	return kids, nil
}

// ListByParent returns the kids linked to a parent user.
func (s *Store) ListByParent(ctx context.Context, parentID primitive.ObjectID) ([]models.Kid, error) {
	return s.List(ctx, ListFilter{ParentID: parentID.Hex()})
}

// CountByTeam returns the roster size for a team.
func (s *Store) CountByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"team_id": teamID})
}
