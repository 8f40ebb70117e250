package cognito

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// fakeDirectory はユーザー名をキーにしたインメモリのユーザープールです。
type fakeDirectory struct {
	mu       sync.Mutex
	users    map[string][]types.AttributeType
	pageSize int

	listCalls   int
	createCalls int
	listErr     error
	createErr   error
	lastCreate  *cip.AdminCreateUserInput
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[string][]types.AttributeType), pageSize: 60}
}

func (f *fakeDirectory) put(username string, attrs map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]types.AttributeType, 0, len(attrs))
	for name, value := range attrs {
		list = append(list, types.AttributeType{Name: aws.String(name), Value: aws.String(value)})
	}
	f.users[username] = list
}

func (f *fakeDirectory) ListUsers(_ context.Context, in *cip.ListUsersInput, _ ...func(*cip.Options)) (*cip.ListUsersOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	names := make([]string, 0, len(f.users))
	for name := range f.users {
		names = append(names, name)
	}
	sort.Strings(names)

	start := 0
	if in.PaginationToken != nil {
		start, _ = strconv.Atoi(*in.PaginationToken)
	}
	end := start + f.pageSize
	if end > len(names) {
		end = len(names)
	}

	out := &cip.ListUsersOutput{}
	for _, name := range names[start:end] {
		out.Users = append(out.Users, types.UserType{Username: aws.String(name), Attributes: f.users[name]})
	}
	if end < len(names) {
		out.PaginationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeDirectory) AdminCreateUser(_ context.Context, in *cip.AdminCreateUserInput, _ ...func(*cip.Options)) (*cip.AdminCreateUserOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	f.lastCreate = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	name := aws.ToString(in.Username)
	if _, ok := f.users[name]; ok {
		return nil, &types.UsernameExistsException{Message: aws.String("User account already exists")}
	}
	f.users[name] = in.UserAttributes
	return &cip.AdminCreateUserOutput{User: &types.UserType{Username: in.Username, Attributes: in.UserAttributes}}, nil
}

func (f *fakeDirectory) AdminUpdateUserAttributes(_ context.Context, in *cip.AdminUpdateUserAttributesInput, _ ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(in.Username)
	existing, ok := f.users[name]
	if !ok {
		return nil, &types.UserNotFoundException{Message: aws.String("User does not exist.")}
	}

	merged := make(map[string]string, len(existing))
	for _, a := range existing {
		merged[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}
	for _, a := range in.UserAttributes {
		merged[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}
	list := make([]types.AttributeType, 0, len(merged))
	for n, v := range merged {
		list = append(list, types.AttributeType{Name: aws.String(n), Value: aws.String(v)})
	}
	f.users[name] = list
	return &cip.AdminUpdateUserAttributesOutput{}, nil
}

func (f *fakeDirectory) AdminDeleteUser(_ context.Context, in *cip.AdminDeleteUserInput, _ ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(in.Username)
	if _, ok := f.users[name]; !ok {
		return nil, &types.UserNotFoundException{Message: aws.String("User does not exist.")}
	}
	delete(f.users, name)
	return &cip.AdminDeleteUserOutput{}, nil
}
