package compat

import (
	"strings"
	"testing"

	"github.com/kolah/canon/internal/canon"
	"github.com/kolah/canon/internal/ingest"
	"github.com/kolah/canon/internal/loader"
	"github.com/kolah/canon/internal/model"
	"github.com/kolah/canon/internal/naming"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, src string) *model.Document {
	t.Helper()
	res, err := loader.Load([]byte(src), loader.Options{})
	require.NoError(t, err)
	doc, err := ingest.Parse(res.Model)
	require.NoError(t, err)
	require.NoError(t, ingest.New(doc, nil).Run())
	_, err = canon.New(doc.Components, nil).Run()
	require.NoError(t, err)
	return doc
}

const petPaths = `
openapi: 3.0.3
info:
  title: pets
  version: "1"
paths:
  /pets:
    post:
      operationId: createPet
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        "201":
          description: created
  /pets/{id}:
    get:
      operationId: getPet
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`

const petWithAge = petPaths + `        age:
          type: integer
          format: int32
`

func TestDiffIdenticalDocuments(t *testing.T) {
	res := Diff(load(t, petPaths), load(t, petPaths), naming.DefaultScheme(), naming.DefaultScheme(), nil)

	require.Equal(t, map[string]string{"Pet": "Pet"}, res.Components)
	require.Equal(t, map[string]string{
		"CreatePetResponse": "CreatePetResponse",
		"GetPetResponse":    "GetPetResponse",
	}, res.Responses)
	require.Equal(t, map[string]string{
		"CreatePetJsonRequest": "CreatePetJsonRequest",
		"GetPetRequest":        "GetPetRequest",
	}, res.Requests)
	require.Empty(t, res.ExtensionOperations)
	require.Equal(t, []string{"Pet"}, res.Compatible)
}

func TestDiffChangedComponent(t *testing.T) {
	res := Diff(load(t, petPaths), load(t, petWithAge), naming.DefaultScheme(), naming.DefaultScheme(), nil)

	require.Empty(t, res.Components)
	require.Equal(t, []string{"Pet"}, res.Incompatible)
	require.Equal(t, map[string]string{"CreatePetResponse": "CreatePetResponse"}, res.Responses)
	require.Equal(t, map[string]string{"GetPetRequest": "GetPetRequest"}, res.Requests)
	require.Equal(t, []string{"getPet", "createPet"}, res.ExtensionOperations)
	require.True(t, res.IsExtensionOperation("createPet"))
	require.False(t, res.IsExtensionOperation("listPets"))
}

func TestDiffUsesSchemeNames(t *testing.T) {
	base := naming.DefaultScheme()
	base.ModelSuffix = "Model"
	ext := naming.DefaultScheme()
	ext.ModelSuffix = "Dto"
	ext.ResponseSuffix = "Reply"

	res := Diff(load(t, petPaths), load(t, petPaths), base, ext, nil)
	require.Equal(t, map[string]string{"PetDto": "PetModel"}, res.Components)
	require.Equal(t, "GetPetResponse", res.Responses["GetPetReply"])
}

func TestDiffOperations(t *testing.T) {
	extra := `
  /owners:
    get:
      operationId: listOwners
      responses:
        "200":
          description: ok
`
	renamed := `
openapi: 3.0.3
info:
  title: pets
  version: "1"
paths:
  /pets:
    post:
      operationId: addPet
      responses:
        "201":
          description: created
`
	tests := []struct {
		name   string
		base   string
		ext    string
		extOps []string
	}{
		{name: "operation only in extension", base: petPaths, ext: strings.Replace(petPaths, "\ncomponents:", extra+"components:", 1), extOps: []string{"listOwners"}},
		{name: "operation renamed", base: petPaths, ext: renamed, extOps: []string{"addPet"}},
		{name: "identical", base: petPaths, ext: petPaths, extOps: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Diff(load(t, tt.base), load(t, tt.ext), naming.DefaultScheme(), naming.DefaultScheme(), nil)
			require.Equal(t, tt.extOps, res.ExtensionOperations)
		})
	}
}

func schemaDoc(schemas string) string {
	return "openapi: 3.0.3\ninfo:\n  title: t\n  version: \"1\"\npaths: {}\ncomponents:\n  schemas:\n" + schemas
}

func TestDiffTransitiveDependencies(t *testing.T) {
	base := schemaDoc(`
    Pet:
      type: object
      properties:
        owner:
          $ref: '#/components/schemas/Owner'
    Owner:
      type: object
      properties:
        name:
          type: string
    Tag:
      type: object
      properties:
        label:
          type: string
`)
	ext := schemaDoc(`
    Pet:
      type: object
      properties:
        owner:
          $ref: '#/components/schemas/Owner'
    Owner:
      type: object
      properties:
        name:
          type: string
          maxLength: 10
    Tag:
      type: object
      properties:
        label:
          type: string
`)

	res := Diff(load(t, base), load(t, ext), naming.DefaultScheme(), naming.DefaultScheme(), nil)
	require.Equal(t, []string{"Tag"}, res.Compatible)
	require.Equal(t, []string{"Pet", "Owner"}, res.Incompatible)
}

func TestDiffCycles(t *testing.T) {
	src := schemaDoc(`
    Node:
      type: object
      properties:
        next:
          $ref: '#/components/schemas/Node'
        peer:
          $ref: '#/components/schemas/Peer'
    Peer:
      type: object
      properties:
        back:
          $ref: '#/components/schemas/Node'
`)

	res := Diff(load(t, src), load(t, src), naming.DefaultScheme(), naming.DefaultScheme(), nil)
	require.Equal(t, []string{"Node", "Peer"}, res.Compatible)
	require.Empty(t, res.Incompatible)
}

func TestDependsOn(t *testing.T) {
	c := model.NewComponents()
	c.Schemas.Set("Leaf", &model.Object{})
	c.Schemas.Set("Item", &model.Object{Properties: []model.Property{{Name: "leaf", Schema: &model.Ref{Name: "Leaf"}}}})
	c.Schemas.Set("Value", &model.Object{})
	c.Schemas.Set("Branch", &model.Object{})
	c.Schemas.Set("Union", &model.Composition{Kind: model.OneOf, Members: []model.Node{&model.Ref{Name: "Branch"}}})

	root := &model.Object{Properties: []model.Property{
		{Name: "items", Schema: &model.Array{Items: &model.Ref{Name: "Item"}}},
		{Name: "values", Schema: &model.Map{Values: &model.Ref{Name: "Value"}}},
		{Name: "union", Schema: &model.Ref{Name: "Union"}},
		{Name: "count", Schema: &model.Scalar{Type: model.TypeInteger}},
	}}

	require.Equal(t, []string{"Branch", "Item", "Leaf", "Union", "Value"}, DependsOn(c, root))
	require.Empty(t, DependsOn(c, &model.Scalar{Type: model.TypeString}))
	require.Empty(t, DependsOn(c, nil))
}

func aliasDoc(target *model.Parameter) *model.Document {
	c := model.NewComponents()
	c.Parameters.Set("IdParam", &model.Parameter{Ref: "RealId"})
	c.Parameters.Set("RealId", target)
	return &model.Document{
		Components: c,
		Paths: []*model.Path{{
			Path: "/pets/{id}",
			Operations: []*model.Operation{{
				ID:         "getPet",
				Method:     model.MethodGet,
				Path:       "/pets/{id}",
				Parameters: []*model.Parameter{{Ref: "IdParam"}},
			}},
		}},
	}
}

func TestDiffFollowsComponentAliases(t *testing.T) {
	idParam := func(typ model.ScalarType) *model.Parameter {
		return &model.Parameter{Name: "id", In: model.LocationPath, Required: true, Schema: &model.Scalar{Type: typ}}
	}

	tests := []struct {
		name      string
		base, ext *model.Document
		extOps    []string
	}{
		{
			name: "same target",
			base: aliasDoc(idParam(model.TypeString)),
			ext:  aliasDoc(idParam(model.TypeString)),
		},
		{
			name:   "target changed behind the alias",
			base:   aliasDoc(idParam(model.TypeString)),
			ext:    aliasDoc(idParam(model.TypeInteger)),
			extOps: []string{"getPet"},
		},
		{
			name:   "alias cycle",
			base:   aliasDoc(&model.Parameter{Ref: "IdParam"}),
			ext:    aliasDoc(&model.Parameter{Ref: "IdParam"}),
			extOps: []string{"getPet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Diff(tt.base, tt.ext, naming.DefaultScheme(), naming.DefaultScheme(), nil)
			require.Equal(t, tt.extOps, res.ExtensionOperations)
		})
	}
}

const sitesDoc = `
openapi: 3.0.3
info:
  title: sites
  version: "1"
paths:
  /pets/{id}:
    get:
      operationId: getPet
      parameters:
        - $ref: '#/components/parameters/IdParam'
      responses:
        "200":
          $ref: '#/components/responses/PetOk'
    put:
      operationId: updatePet
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
            format: uuid
      requestBody:
        $ref: '#/components/requestBodies/PetBody'
      responses:
        "204":
          description: updated
  /pets:
    post:
      operationId: createPet
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Tag'
          text/plain:
            schema:
              type: string
      responses:
        "201":
          description: created
    get:
      operationId: listPets
      responses:
        "200":
          description: ok
components:
  parameters:
    IdParam:
      $ref: '#/components/parameters/RealId'
    RealId:
      name: id
      in: path
      required: true
      schema:
        type: string
  headers:
    RateLimit:
      schema:
        $ref: '#/components/schemas/Limit'
  responses:
    PetOk:
      description: ok
      headers:
        X-Rate-Limit:
          $ref: '#/components/headers/RateLimit'
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Pet'
  requestBodies:
    PetBody:
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Pet'
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
    Limit:
      type: integer
      format: int32
    Tag:
      type: object
      properties:
        label:
          type: string
`

func TestDiffOperationSites(t *testing.T) {
	allRequests := map[string]string{
		"GetPetRequest":        "GetPetRequest",
		"UpdatePetJsonRequest": "UpdatePetJsonRequest",
		"CreatePetJsonRequest": "CreatePetJsonRequest",
		"CreatePetTextRequest": "CreatePetTextRequest",
		"ListPetsRequest":      "ListPetsRequest",
	}
	without := func(names ...string) map[string]string {
		out := make(map[string]string)
		for k, v := range allRequests {
			out[k] = v
		}
		for _, n := range names {
			delete(out, n)
		}
		return out
	}

	tests := []struct {
		name      string
		old, new  string
		extOps    []string
		requests  map[string]string
		responses int
	}{
		{
			name:      "identical",
			requests:  allRequests,
			responses: 4,
		},
		{
			name:      "response header component changed",
			old:       "    RateLimit:\n      schema:",
			new:       "    RateLimit:\n      required: true\n      schema:",
			extOps:    []string{"getPet"},
			requests:  allRequests,
			responses: 3,
		},
		{
			name:      "header schema dependency changed",
			old:       "    Limit:\n      type: integer\n      format: int32",
			new:       "    Limit:\n      type: integer\n      format: int64",
			extOps:    []string{"getPet"},
			requests:  allRequests,
			responses: 3,
		},
		{
			name:      "aliased parameter changed",
			old:       "    RealId:\n      name: id\n      in: path\n      required: true\n      schema:\n        type: string",
			new:       "    RealId:\n      name: id\n      in: path\n      required: true\n      schema:\n        type: integer",
			extOps:    []string{"getPet"},
			requests:  without("GetPetRequest"),
			responses: 4,
		},
		{
			name:      "parameter schema changed",
			old:       "format: uuid",
			new:       "format: uuid\n            maxLength: 36",
			extOps:    []string{"updatePet"},
			requests:  without("UpdatePetJsonRequest"),
			responses: 4,
		},
		{
			name:      "request body changed",
			old:       "    PetBody:\n      content:",
			new:       "    PetBody:\n      required: true\n      content:",
			extOps:    []string{"updatePet"},
			requests:  without("UpdatePetJsonRequest"),
			responses: 4,
		},
		{
			name:      "equal operation touching an incompatible body type",
			old:       "        label:\n          type: string",
			new:       "        label:\n          type: string\n          maxLength: 20",
			extOps:    []string{"createPet"},
			requests:  without("CreatePetJsonRequest", "CreatePetTextRequest"),
			responses: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := sitesDoc
			if tt.old != "" {
				require.Contains(t, ext, tt.old)
				ext = strings.Replace(ext, tt.old, tt.new, 1)
			}

			res := Diff(load(t, sitesDoc), load(t, ext), naming.DefaultScheme(), naming.DefaultScheme(), nil)
			require.Equal(t, tt.extOps, res.ExtensionOperations)
			require.Equal(t, tt.requests, res.Requests)
			require.Len(t, res.Responses, tt.responses)
		})
	}
}

func TestDiffLeavesDocumentsUntouched(t *testing.T) {
	base := &model.Document{}
	ext := load(t, petPaths)

	res := Diff(base, ext, naming.DefaultScheme(), naming.DefaultScheme(), nil)
	require.Nil(t, base.Components)
	require.Equal(t, []string{"Pet"}, res.Incompatible)
	require.Equal(t, []string{"createPet", "getPet"}, res.ExtensionOperations)

	empty := &model.Document{}
	res = Diff(ext, empty, naming.DefaultScheme(), naming.DefaultScheme(), nil)
	require.Nil(t, empty.Components)
	require.Empty(t, res.Compatible)
	require.Empty(t, res.ExtensionOperations)
}
